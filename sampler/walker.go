package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/rhaas80/MCMC-BHPIRE/buffer"
	"github.com/rhaas80/MCMC-BHPIRE/model"
	"github.com/rhaas80/MCMC-BHPIRE/rand"
)

// MaxParams is the largest parameter vector a walker accepts. Oversized
// configurations are rejected with an error instead of silently truncated.
const MaxParams = 16

// RunResult is the externally visible outcome of one complete walker run.
type RunResult struct {
	BestParams  []float64 // parameter vector with the highest posterior seen
	BestLogPost float64   // its log posterior
	Accepted    int       // number of accepted proposals
	AcceptRatio float64   // Accepted / Nchain, always in [0, 1]
}

// A Walker runs one Metropolis random-walk chain: propose a Gaussian step in
// every parameter, score it, accept or reject, and record the current state
// each iteration. Each walker owns its own PRNG, seeded with baseSeed+rank, so
// a group of walkers follows independent, reproducible trajectories.
type Walker struct {
	Post   Posterior
	Rank   int
	Nchain int
	Params []float64 // current position; overwritten with BestParams by Run
	Steps  []float64 // per-parameter standard deviation of the proposal step

	gen   *rand.Generator
	chain *buffer.Chain
}

// DefaultSteps builds the proposal step scales as a fixed fraction of each
// initial parameter value.
func DefaultSteps(params []float64, frac float64) []float64 {
	steps := make([]float64, len(params))
	for i, p := range params {
		steps[i] = frac * p
	}
	return steps
}

// NewWalker creates a walker for one rank. The full chain buffer is allocated
// here: a run that cannot hold its chain must fail before any sibling starts
// waiting on it.
func NewWalker(post Posterior, rank int, nchain int, baseSeed int64, params []float64, steps []float64) (*Walker, error) {
	if post == nil {
		return nil, errors.Errorf("No posterior supplied")
	}
	if rank < 0 {
		return nil, errors.Errorf("Invalid rank %d", rank)
	}
	if nchain < 1 {
		return nil, errors.Errorf("Invalid chain length %d", nchain)
	}
	if len(params) < 1 || len(params) > MaxParams {
		return nil, errors.Errorf("Invalid parameter count %d (max %d)", len(params), MaxParams)
	}
	if len(steps) != len(params) {
		return nil, errors.Errorf("Step scale count %d != parameter count %d", len(steps), len(params))
	}

	chain, err := buffer.NewChain(len(params), nchain)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not allocate chain for rank %d", rank)
	}

	gen, err := rand.NewGenerator(baseSeed + int64(rank))
	if err != nil {
		return nil, errors.Wrapf(err, "Could not seed generator for rank %d", rank)
	}

	w := &Walker{
		Post:   post,
		Rank:   rank,
		Nchain: nchain,
		Params: params,
		Steps:  steps,
		gen:    gen,
		chain:  chain,
	}

	return w, nil
}

// Chain returns the recorded chain. Valid after Run.
func (w *Walker) Chain() *buffer.Chain {
	return w.chain
}

// Run executes exactly Nchain Metropolis iterations. Every iteration records
// a snapshot of the current state, accepted or not. On return, Params holds
// the best-found vector, NOT the terminal walk position; callers needing the
// terminal state must copy Params before calling.
func (w *Walker) Run() (*RunResult, error) {
	nparam := len(w.Params)
	cand := make([]float64, nparam)

	best := make([]float64, nparam)
	copy(best, w.Params)
	bestProb := model.RejectLogProb

	probPrev := w.Post.LogPosterior(w.Params)
	accepted := 0

	for i := 0; i < w.Nchain; i++ {
		// take a Gaussian step in each parameter
		for j := range cand {
			cand[j] = w.Params[j] + w.gen.Gauss(w.Steps[j])
		}

		probCand := w.Post.LogPosterior(cand)

		// log-space Metropolis criterion: accept with probability
		// min(1, exp(probCand-probPrev))
		u := w.gen.UnitOpenClosed()
		if probCand >= probPrev+math.Log(u) {
			copy(w.Params, cand)
			probPrev = probCand
			accepted++

			if probCand > bestProb {
				copy(best, w.Params)
				bestProb = probCand
			}
		}

		if err := w.chain.Append(w.Params); err != nil {
			return nil, errors.Wrapf(err, "Could not record chain step %d for rank %d", i, w.Rank)
		}
	}

	copy(w.Params, best)

	res := &RunResult{
		BestParams:  best,
		BestLogPost: bestProb,
		Accepted:    accepted,
		AcceptRatio: float64(accepted) / float64(w.Nchain),
	}

	return res, nil
}
