package sampler

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrChainFile is the cause reported for any failure touching the shared
// chain output file, so callers can tell write-side I/O failures from
// data-read failures.
var ErrChainFile = errors.New("chain file error")

// GroupConfig describes one complete multi-walker run.
type GroupConfig struct {
	Size      int       // number of cooperating walkers (ranks 0..Size-1)
	Nchain    int       // iterations per walker
	BaseSeed  int64     // rank r seeds its generator with BaseSeed+r
	Init      []float64 // initial parameter vector, copied per walker
	Steps     []float64 // proposal step scales, shared read-only
	ChainPath string    // shared chain output file

	Post Posterior

	// OnRankDone, if set, is called after each rank's chain block has been
	// written, in rank order. Used for progress reporting.
	OnRankDone func(rank int, res *RunResult)
}

// A Group coordinates a fixed set of walkers, one per rank, and merges their
// chains into one file. The chain file's line ranges form contiguous,
// rank-ascending blocks of Nchain lines each: rank 0 creates and truncates
// the file, every later rank appends only after all lower ranks have
// finished writing. Write ordering is enforced by a token handoff, not a
// lock. If any walker fails, the whole group aborts together.
type Group struct {
	cfg     GroupConfig
	walkers []*Walker
}

// NewGroup validates the configuration and allocates every walker (and thus
// every chain buffer) up front.
func NewGroup(cfg GroupConfig) (*Group, error) {
	if cfg.Size < 1 {
		return nil, errors.Errorf("Invalid group size %d", cfg.Size)
	}
	if len(cfg.ChainPath) < 1 {
		return nil, errors.Errorf("No chain output path supplied")
	}

	g := &Group{
		cfg:     cfg,
		walkers: make([]*Walker, cfg.Size),
	}

	for rank := 0; rank < cfg.Size; rank++ {
		params := make([]float64, len(cfg.Init))
		copy(params, cfg.Init)

		w, err := NewWalker(cfg.Post, rank, cfg.Nchain, cfg.BaseSeed, params, cfg.Steps)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not create walker for rank %d", rank)
		}
		g.walkers[rank] = w
	}

	return g, nil
}

// Walker returns the walker for the given rank.
func (g *Group) Walker(rank int) *Walker {
	return g.walkers[rank]
}

// Run executes every walker concurrently, then writes all chains to the
// shared file in strict rank order. Results are returned in rank order. On
// any failure the remaining walkers are cancelled rather than left waiting
// on a write token that will never arrive.
func (g *Group) Run(ctx context.Context) ([]*RunResult, error) {
	results := make([]*RunResult, g.cfg.Size)

	// turn[r] closes when rank r may write its chain block
	turn := make([]chan struct{}, g.cfg.Size+1)
	for i := range turn {
		turn[i] = make(chan struct{})
	}
	close(turn[0])

	eg, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < g.cfg.Size; rank++ {
		rank := rank
		w := g.walkers[rank]

		eg.Go(func() error {
			res, err := w.Run()
			if err != nil {
				return errors.Wrapf(err, "Walk failed on rank %d", rank)
			}
			results[rank] = res

			select {
			case <-turn[rank]:
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := g.writeRank(w); err != nil {
				return err
			}
			close(turn[rank+1])

			if g.cfg.OnRankDone != nil {
				g.cfg.OnRankDone(rank, res)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// writeRank appends one walker's chain block to the shared file. Only called
// while holding the write token, so no two ranks ever have the file open at
// the same time.
func (g *Group) writeRank(w *Walker) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if w.Rank == 0 {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(g.cfg.ChainPath, flags, 0644)
	if err != nil {
		return errors.Wrapf(ErrChainFile, "rank %d opening %s: %v", w.Rank, g.cfg.ChainPath, err)
	}

	if _, err := w.chain.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(ErrChainFile, "rank %d writing %s: %v", w.Rank, g.cfg.ChainPath, err)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(ErrChainFile, "rank %d closing %s: %v", w.Rank, g.cfg.ChainPath, err)
	}

	return nil
}
