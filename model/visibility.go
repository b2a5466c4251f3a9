package model

import (
	"math"
)

// muarcsecToRad converts microarcseconds to radians
const muarcsecToRad = 4.8481368110954e-12

// A ForwardModel predicts the visibility amplitude at baseline coordinates
// (u, v) for one parameter vector. It must be a pure function: walkers share
// one ForwardModel across goroutines.
type ForwardModel func(params []float64, u float64, v float64) float64

// TwoGaussian is the reference forward model: the visibility amplitude of a
// two-component Gaussian image. Component 1 (flux params[0], width params[1])
// sits at the origin and is purely real. Component 2 (flux params[4], width
// params[5]) is displaced by (params[2], params[3]) microarcseconds, which
// shows up as a phase ramp. The prediction is the modulus of their sum.
func TwoGaussian(params []float64, u float64, v float64) float64 {
	aux := 2.0 * math.Pi * math.Pi
	b02 := (u*u + v*v) * muarcsecToRad * muarcsecToRad

	// real part of Gaussian 1 (zero centered, imaginary part is zero)
	vr1 := params[0] * math.Exp(-aux*params[1]*params[1]*b02)

	// amplitude, real and imaginary parts of Gaussian 2
	v2 := params[4] * math.Exp(-aux*params[5]*params[5]*b02)
	phase2 := -2.0 * math.Pi * (u*params[2] + v*params[3]) * muarcsecToRad
	vr2 := v2 * math.Cos(phase2)
	vi2 := v2 * math.Sin(phase2)

	return math.Sqrt((vr1+vr2)*(vr1+vr2) + vi2*vi2)
}
