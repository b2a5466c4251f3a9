package model

import (
	"math"

	"github.com/pkg/errors"
)

// RejectLogProb is the in-band log-probability floor. The likelihood returns
// it for candidates with negative scale parameters, which guarantees rejection
// at the acceptance test without exceptional control flow. The value is kept
// exactly for reproducibility with existing chain outputs.
const RejectLogProb = -1.0e34

// Indices of the scale-type parameters (the two fluxes and two widths) in the
// reference six-parameter vector.
var scaleParamIdx = [4]int{0, 1, 4, 5}

// Posterior scores parameter vectors against one data set: a Jeffreys-style
// prior over the scale parameters plus a -chi^2 likelihood under the forward
// model. All methods are pure, so one Posterior may be shared by concurrent
// walkers.
type Posterior struct {
	Model ForwardModel
	Data  *Data
}

// NewPosterior returns a Posterior over the given forward model and data.
func NewPosterior(fm ForwardModel, d *Data) (*Posterior, error) {
	if fm == nil {
		return nil, errors.Errorf("No forward model supplied")
	}
	if d == nil {
		return nil, errors.Errorf("No data supplied")
	}
	if err := d.Check(); err != nil {
		return nil, errors.Wrap(err, "Posterior given invalid data")
	}

	p := &Posterior{
		Model: fm,
		Data:  d,
	}
	return p, nil
}

// LogPrior returns the log of the prior: inversely proportional to each of the
// scale parameters (flux and width of both components).
// NB: no check for zeros, to increase efficiency.
func (p *Posterior) LogPrior(params []float64) float64 {
	return -math.Log(params[0] * params[1] * params[4] * params[5])
}

// LogLikelihood returns -chi^2 of the forward model against the data, or
// RejectLogProb if any scale parameter is negative.
func (p *Posterior) LogLikelihood(params []float64) float64 {
	// penalize all negative fluxes and widths with a very small likelihood
	for _, i := range scaleParamIdx {
		if params[i] < 0 {
			return RejectLogProb
		}
	}

	chi2 := 0.0
	for i := 0; i < p.Data.Npts(); i++ {
		diff := p.Data.Vis[i] - p.Model(params, p.Data.U[i], p.Data.V[i])
		chi2 += diff * diff / (p.Data.Sigma[i] * p.Data.Sigma[i])
	}

	return -chi2
}

// LogPosterior returns the log posterior: log prior plus log likelihood.
func (p *Posterior) LogPosterior(params []float64) float64 {
	return p.LogPrior(params) + p.LogLikelihood(params)
}
