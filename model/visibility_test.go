package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var refParams = []float64{4.5, 4.8, -11.5, 13.6, 1.4, 3.1}

func TestTwoGaussianZeroBaseline(t *testing.T) {
	assert := assert.New(t)

	// At zero baseline both Gaussians contribute their full flux with zero
	// phase, so the amplitude is just the total flux.
	v := TwoGaussian(refParams, 0.0, 0.0)
	assert.InDelta(4.5+1.4, v, 1e-12)
}

func TestTwoGaussianSingleComponent(t *testing.T) {
	assert := assert.New(t)

	// With the second component's flux zeroed the model is one real
	// Gaussian: amplitude p0 * exp(-2 pi^2 p1^2 b^2).
	params := []float64{4.5, 4.8, -11.5, 13.6, 0.0, 3.1}
	u, v := 2.0e9, -1.0e9

	b02 := (u*u + v*v) * muarcsecToRad * muarcsecToRad
	exp := 4.5 * math.Exp(-2.0*math.Pi*math.Pi*4.8*4.8*b02)
	assert.InDelta(exp, TwoGaussian(params, u, v), 1e-12)
}

func TestTwoGaussianBounded(t *testing.T) {
	assert := assert.New(t)

	// The amplitude can never exceed the total flux
	total := refParams[0] + refParams[4]
	for _, uv := range [][2]float64{{1e9, 1e9}, {5e9, -2e9}, {-8e9, 3e9}} {
		v := TwoGaussian(refParams, uv[0], uv[1])
		assert.GreaterOrEqual(v, 0.0)
		assert.LessOrEqual(v, total+1e-12)
	}
}
