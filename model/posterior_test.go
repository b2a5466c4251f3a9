package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func onePointData() *Data {
	return &Data{
		U:     []float64{0.0},
		V:     []float64{0.0},
		Vis:   []float64{5.8},
		Sigma: []float64{0.1},
	}
}

func TestNewPosterior(t *testing.T) {
	assert := assert.New(t)

	p, err := NewPosterior(nil, onePointData())
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPosterior(TwoGaussian, nil)
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPosterior(TwoGaussian, &Data{})
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPosterior(TwoGaussian, onePointData())
	assert.NotNil(p)
	assert.NoError(err)
}

func TestLogPrior(t *testing.T) {
	assert := assert.New(t)

	p, err := NewPosterior(TwoGaussian, onePointData())
	assert.NoError(err)

	params := []float64{4.5, 4.8, -11.5, 13.6, 1.4, 3.1}
	assert.InDelta(-math.Log(4.5*4.8*1.4*3.1), p.LogPrior(params), 1e-12)
}

func TestLogLikelihoodSentinel(t *testing.T) {
	assert := assert.New(t)

	p, err := NewPosterior(TwoGaussian, onePointData())
	assert.NoError(err)

	// a negative value at any scale index returns exactly the floor
	for _, idx := range []int{0, 1, 4, 5} {
		params := []float64{4.5, 4.8, -11.5, 13.6, 1.4, 3.1}
		params[idx] = -params[idx]
		assert.Equal(RejectLogProb, p.LogLikelihood(params))
	}

	// negative displacements are fine
	params := []float64{4.5, 4.8, 11.5, -13.6, 1.4, 3.1}
	assert.NotEqual(RejectLogProb, p.LogLikelihood(params))
}

func TestLogLikelihoodChi2(t *testing.T) {
	assert := assert.New(t)

	p, err := NewPosterior(TwoGaussian, onePointData())
	assert.NoError(err)

	// At u=v=0 the model predicts p0+p4 = 5.9, the datum is 5.8 +/- 0.1,
	// so chi^2 = (0.1/0.1)^2 = 1.
	params := []float64{4.5, 4.8, -11.5, 13.6, 1.4, 3.1}
	assert.InDelta(-1.0, p.LogLikelihood(params), 1e-9)

	assert.InDelta(
		p.LogPrior(params)+p.LogLikelihood(params),
		p.LogPosterior(params),
		1e-12,
	)
}
