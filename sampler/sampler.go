package sampler

// A Posterior scores one complete parameter vector in log space. It is the
// objective a walker samples from. Implementations must be pure functions of
// their arguments: one Posterior is shared by every walker in a group.
type Posterior interface {
	LogPosterior(params []float64) float64
}

// The PosteriorFunc adapter allows plain functions as Posteriors.
type PosteriorFunc func(params []float64) float64

// LogPosterior implements the Posterior interface
func (f PosteriorFunc) LogPosterior(params []float64) float64 {
	return f(params)
}
