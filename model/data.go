package model

import (
	"os"

	"github.com/pkg/errors"
)

// MaxDataPoints is the largest observation count we accept. Configurations
// beyond this are rejected with an error instead of silently truncated.
const MaxDataPoints = 65536

// ErrDataFile is the cause reported for any failure touching the input data
// file, so callers can tell read-side I/O failures from chain-write failures.
var ErrDataFile = errors.New("data file error")

// Data is one immutable set of visibility observations: parallel slices of
// u-coordinate, v-coordinate, visibility amplitude, and measurement error, in
// file order. Owned by the driver and shared read-only by all walkers.
type Data struct {
	U     []float64
	V     []float64
	Vis   []float64
	Sigma []float64
}

// Npts returns the number of observations
func (d *Data) Npts() int {
	return len(d.U)
}

// Check returns an error if there is a problem with the data set
func (d *Data) Check() error {
	n := len(d.U)
	if len(d.V) != n || len(d.Vis) != n || len(d.Sigma) != n {
		return errors.Errorf(
			"Data columns have mismatched lengths u:%d v:%d vis:%d sigma:%d",
			len(d.U), len(d.V), len(d.Vis), len(d.Sigma),
		)
	}
	if n < 1 {
		return errors.Errorf("Data set is empty")
	}
	if n > MaxDataPoints {
		return errors.Errorf("Data set has %d points, max is %d", n, MaxDataPoints)
	}
	return nil
}

// NewDataFromFile reads a four-column visibility data file. The columns are
// u-coordinate, v-coordinate, visibility amplitude, and error, separated by
// whitespace.
func NewDataFromFile(filename string) (*Data, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(ErrDataFile, "could not READ data from %s: %v", filename, err)
	}

	d, err := NewDataFromBuffer(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "in data file %s", filename)
	}

	return d, nil
}

// NewDataFromBuffer parses four-column visibility data from the given pre-read
// buffer. Values are whitespace-delimited, four per observation; blank lines
// are ignored. A field count that is not a multiple of four, or any
// non-numeric field, is an error.
func NewDataFromBuffer(raw []byte) (*Data, error) {
	fr := NewFieldReader(string(raw))

	if fr.Remaining()%4 != 0 {
		return nil, errors.Errorf("Data has %d fields, not a multiple of 4", fr.Remaining())
	}

	npts := fr.Remaining() / 4
	if npts > MaxDataPoints {
		return nil, errors.Errorf("Data set has %d points, max is %d", npts, MaxDataPoints)
	}

	d := &Data{
		U:     make([]float64, npts),
		V:     make([]float64, npts),
		Vis:   make([]float64, npts),
		Sigma: make([]float64, npts),
	}

	cols := []*[]float64{&d.U, &d.V, &d.Vis, &d.Sigma}
	for i := 0; i < npts; i++ {
		for c, col := range cols {
			v, err := fr.ReadFloat()
			if err != nil {
				return nil, errors.Wrapf(err, "Error reading point %d column %d", i, c)
			}
			(*col)[i] = v
		}
	}

	if err := d.Check(); err != nil {
		return nil, errors.Wrap(err, "Parsed data is not valid")
	}

	return d, nil
}
