package buffer

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Chain is a fixed-capacity store for the parameter-vector snapshots of one
// walker run. One row is appended per iteration and rows are never dropped or
// overwritten; the full run is kept so it can be serialized as one contiguous
// block in the shared chain file.
type Chain struct {
	vals   []float64 // row-major storage: nparam values per row
	Nparam int       // Nparam is the fixed row width
	Cap    int       // Cap is the fixed number of rows allocated up front
}

// NewChain allocates storage for nsteps rows of nparam values each. The whole
// buffer is allocated here so an impossible chain size fails before the walk
// starts rather than mid-run.
func NewChain(nparam int, nsteps int) (*Chain, error) {
	if nparam < 1 {
		return nil, errors.Errorf("Invalid chain row width %d", nparam)
	}
	if nsteps < 1 {
		return nil, errors.Errorf("Invalid chain length %d", nsteps)
	}

	return &Chain{
		vals:   make([]float64, 0, nparam*nsteps),
		Nparam: nparam,
		Cap:    nsteps,
	}, nil
}

// Len returns the number of rows appended so far
func (c *Chain) Len() int {
	return len(c.vals) / c.Nparam
}

// Append adds one parameter-vector snapshot to the chain. The row is copied,
// so the caller may keep mutating its slice.
func (c *Chain) Append(row []float64) error {
	if len(row) != c.Nparam {
		return errors.Errorf("Cannot append row of width %d to chain of width %d", len(row), c.Nparam)
	}
	if c.Len() >= c.Cap {
		return errors.Errorf("Chain is full (%d rows)", c.Cap)
	}

	c.vals = append(c.vals, row...)
	return nil
}

// Row returns the i'th appended row. The returned slice aliases the chain's
// storage and must not be modified.
func (c *Chain) Row(i int) []float64 {
	return c.vals[i*c.Nparam : (i+1)*c.Nparam]
}

// WriteTo serializes the chain as plain text: one row per line, each value in
// scientific notation followed by a tab. This matches the historical chain
// file format byte for byte.
func (c *Chain) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var total int64
	for i := 0; i < c.Len(); i++ {
		for _, v := range c.Row(i) {
			n, err := fmt.Fprintf(bw, "%e\t", v)
			total += int64(n)
			if err != nil {
				return total, errors.Wrap(err, "Error writing chain value")
			}
		}
		n, err := bw.WriteString("\n")
		total += int64(n)
		if err != nil {
			return total, errors.Wrap(err, "Error writing chain row")
		}
	}

	if err := bw.Flush(); err != nil {
		return total, errors.Wrap(err, "Error flushing chain")
	}
	return total, nil
}
