package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startupParams collects everything the fit run needs. Flags override env
// vars, env vars override the built-in defaults.
type startupParams struct {
	dataFile    string
	chainFile   string
	modelFile   string
	chainLen    int
	walkers     int
	randomSeed  int64
	stepFrac    float64
	initParams  []float64
	monitorAddr string
	verbose     bool

	log *zap.SugaredLogger
}

// envDefaults are the flag defaults, overridable via MCMC_* environment
// variables (optionally loaded from a .env file).
type envDefaults struct {
	DataFile    string  `envconfig:"DATA_FILE" default:"synth_data.dat"`
	ChainFile   string  `envconfig:"CHAIN_FILE" default:"chains.dat"`
	ModelFile   string  `envconfig:"MODEL_FILE" default:"model.dat"`
	ChainLen    int     `envconfig:"CHAIN_LEN" default:"50000"`
	Walkers     int     `envconfig:"WALKERS" default:"1"`
	Seed        int64   `envconfig:"SEED" default:"4357"`
	StepFrac    float64 `envconfig:"STEP_FRAC" default:"0.01"`
	MonitorAddr string  `envconfig:"MONITOR_ADDR" default:""`
}

// defaultInitParams is the reference starting point for the two-Gaussian
// visibility model: flux and width of component 1, x/y displacement of
// component 2, flux and width of component 2.
var defaultInitParams = []float64{4.5, 4.8, -11.5, 13.6, 1.4, 3.1}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// A missing .env is fine; env vars and flags still apply
	_ = godotenv.Load()

	var def envDefaults
	if err := envconfig.Process("mcmc", &def); err != nil {
		fmt.Fprintf(os.Stderr, "Bad MCMC_* environment: %v\n", err)
		os.Exit(1)
	}

	sp := &startupParams{}

	rootCmd := &cobra.Command{
		Use:   "mcmc",
		Short: "MCMC fitting of interferometric visibility data",
		Long: `mcmc fits a parametric visibility model to interferometric data with a
random-walk Metropolis sampler. Multiple walkers run independent,
reproducible chains from a shared base seed and merge their output into
one rank-ordered chain file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logCfg := zap.NewProductionConfig()
			if sp.verbose {
				logCfg = zap.NewDevelopmentConfig()
			}
			logger, err := logCfg.Build()
			if err != nil {
				return err
			}
			defer logger.Sync()
			sp.log = logger.Sugar()

			return runFit(sp)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&sp.dataFile, "data", "d", def.DataFile, "Four-column visibility data file to fit")
	pf.StringVarP(&sp.chainFile, "chains", "o", def.ChainFile, "Output file for the merged MCMC chains")
	pf.StringVarP(&sp.modelFile, "model", "m", def.ModelFile, "Output file for the best-fit model table")
	pf.IntVarP(&sp.chainLen, "nchain", "n", def.ChainLen, "Chain length (iterations per walker)")
	pf.IntVarP(&sp.walkers, "walkers", "w", def.Walkers, "Number of cooperating walkers")
	pf.Int64VarP(&sp.randomSeed, "seed", "r", def.Seed, "Base random seed (walker i uses seed+i)")
	pf.Float64VarP(&sp.stepFrac, "frac", "f", def.StepFrac, "Proposal step scale as a fraction of each initial parameter")
	pf.Float64SliceVarP(&sp.initParams, "init", "i", defaultInitParams, "Initial model parameters")
	pf.StringVar(&sp.monitorAddr, "monitor", def.MonitorAddr, "Optional addr for the expvar progress monitor (e.g. :8000)")
	pf.BoolVarP(&sp.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
