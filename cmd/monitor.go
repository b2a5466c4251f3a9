package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/rhaas80/MCMC-BHPIRE/model"
	"github.com/rhaas80/MCMC-BHPIRE/sampler"
)

// monitor exposes run progress over HTTP via expvar. One instance may be
// started per process.
type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server

	DataPoints  *expvar.Int
	ChainLength *expvar.Int
	Walkers     *expvar.Int
	BaseSeed    *expvar.Int

	RanksDone     *expvar.Int
	TotalAccepted *expvar.Int
	BestLogPost   *expvar.Float
	RunTime       *expvar.Float
}

// Start begins the monitor
func (m *monitor) Start(addr string, sp *startupParams, npts int) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	m.info = expvar.NewMap("mcmc-progress")
	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr: addr,
	}

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.DataPoints = expvar.NewInt("Data-Points")
	m.ChainLength = expvar.NewInt("Chain-Length")
	m.Walkers = expvar.NewInt("Walker-Count")
	m.BaseSeed = expvar.NewInt("Base-Seed")

	m.RanksDone = expvar.NewInt("Ranks-Done")
	m.TotalAccepted = expvar.NewInt("Total-Accepted")
	m.BestLogPost = expvar.NewFloat("Best-Log-Posterior")
	m.RunTime = expvar.NewFloat("Run-Time")

	m.DataPoints.Set(int64(npts))
	m.ChainLength.Set(int64(sp.chainLen))
	m.Walkers.Set(int64(sp.walkers))
	m.BaseSeed.Set(sp.randomSeed)
	m.BestLogPost.Set(model.RejectLogProb)

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

// RankDone records one walker's completion. Called in rank order by the
// group's write handoff.
func (m *monitor) RankDone(rank int, res *sampler.RunResult) {
	m.RanksDone.Add(1)
	m.TotalAccepted.Add(int64(res.Accepted))

	// ranks arrive serialized, so read-then-set is safe
	if v := m.BestLogPost.Value(); res.BestLogPost > v {
		m.BestLogPost.Set(res.BestLogPost)
	}
}

// RunDone records the final wall-clock time and overall best posterior.
func (m *monitor) RunDone(seconds float64, bestLogPost float64) {
	m.RunTime.Set(seconds)
	m.BestLogPost.Set(bestLogPost)
}

func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
