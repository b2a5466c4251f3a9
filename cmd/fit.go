package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/rhaas80/MCMC-BHPIRE/model"
	"github.com/rhaas80/MCMC-BHPIRE/sampler"
)

// runFit is the whole driver sequence: read data, run the walker group,
// log the results, and write the best-model comparison table.
func runFit(sp *startupParams) error {
	data, err := model.NewDataFromFile(sp.dataFile)
	if err != nil {
		return err
	}
	sp.log.Infow("Read data", "file", sp.dataFile, "points", data.Npts())

	post, err := model.NewPosterior(model.TwoGaussian, data)
	if err != nil {
		return err
	}

	cfg := sampler.GroupConfig{
		Size:      sp.walkers,
		Nchain:    sp.chainLen,
		BaseSeed:  sp.randomSeed,
		Init:      sp.initParams,
		Steps:     sampler.DefaultSteps(sp.initParams, sp.stepFrac),
		ChainPath: sp.chainFile,
		Post:      post,
	}

	var mon *monitor
	if len(sp.monitorAddr) > 0 {
		mon = &monitor{}
		if err := mon.Start(sp.monitorAddr, sp, data.Npts()); err != nil {
			return err
		}
		defer mon.Stop()
		cfg.OnRankDone = mon.RankDone
	}

	grp, err := sampler.NewGroup(cfg)
	if err != nil {
		return err
	}

	startTime := time.Now()
	results, err := grp.Run(context.Background())
	if err != nil {
		return err
	}
	runSecs := time.Since(startTime).Seconds()

	// the reported best-fit model is the best across all walkers
	best := results[0]
	for rank, res := range results {
		sp.log.Infow("Walker finished",
			"rank", rank,
			"nchain", sp.chainLen,
			"acceptRatio", res.AcceptRatio,
			"bestLogPost", res.BestLogPost,
		)
		if res.BestLogPost > best.BestLogPost {
			best = res
		}
	}

	sp.log.Infow("Run complete",
		"walkers", sp.walkers,
		"seconds", runSecs,
		"chains", sp.chainFile,
		"bestLogPost", best.BestLogPost,
		"bestParams", best.BestParams,
	)
	if mon != nil {
		mon.RunDone(runSecs, best.BestLogPost)
	}

	return writeModelTable(sp.modelFile, data, best.BestParams)
}

// writeModelTable records the best-fit model next to the data it was fit to:
// one CSV row per observation with the model prediction in the last column.
func writeModelTable(filename string, data *model.Data, params []float64) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create model table %s", filename)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "uCo,vCo,VisAmp,Sigma,Model\n")
	for i := 0; i < data.Npts(); i++ {
		pred := model.TwoGaussian(params, data.U[i], data.V[i])
		fmt.Fprintf(w, "%e, %e, %e, %e, %e\n", data.U[i], data.V[i], data.Vis[i], data.Sigma[i], pred)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "Could not write model table %s", filename)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "Could not close model table %s", filename)
	}

	return nil
}
