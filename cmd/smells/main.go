package main

import "context"
import "os"
import "os/signal"

import "github.com/google/uuid"
import "github.com/klauspost/cpuid/v2"
import "github.com/urfave/cli/v2"
import "go.uber.org/zap"

import "github.com/neurlang/smells/config"
import "github.com/neurlang/smells/logging"

var cpuProfile profile

var app = &cli.App{
	Name:            "smells",
	Usage:           "grid search convolutional code smell detectors",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "load experiment configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{Name: "root", Usage: "tokenized samples `DIR`"},
		&cli.StringFlag{Name: "eval-root", Usage: "evaluation samples `DIR` for cross-language runs"},
		&cli.StringFlag{Name: "dim", Usage: "sample dimension, 1d or 2d"},
		&cli.StringSliceFlag{Name: "smell", Usage: "smell to run, repeatable"},
		&cli.StringFlag{Name: "out", Usage: "result `DIR`"},
		&cli.Int64Flag{Name: "seed", Usage: "base random seed"},
		&cli.BoolFlag{Name: "pgo", Usage: "write a CPU profile to default.pgo"},
	},
	Before: cpuProfile.start,
	After:  cpuProfile.stop,
	Commands: []*cli.Command{
		{
			Name:   "grid",
			Usage:  "evaluate every hyperparameter combination",
			Action: GridAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "resume", Usage: "append to result `FILE`, skipping its rows"},
				&cli.IntFlag{Name: "skip-iter", Usage: "start at 1-based iteration `N`"},
				&cli.BoolFlag{Name: "no-progress", Usage: "hide the progress bar"},
			},
		},
		{
			Name:   "final",
			Usage:  "retrain the best combination without validation",
			Action: FinalAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "from", Usage: "grid result `FILE`, the newest of the smell when empty"},
				&cli.IntFlag{Name: "layers", Usage: "conv layers, overrides --from with the flags below"},
				&cli.IntFlag{Name: "filters"},
				&cli.IntFlag{Name: "kernel"},
				&cli.IntFlag{Name: "window"},
				&cli.IntFlag{Name: "epochs"},
			},
		},
		{
			Name:   "baseline",
			Usage:  "evaluate trivial classifiers",
			Action: BaselineAction,
			Flags: []cli.Flag{
				&cli.StringSliceFlag{Name: "strategy", Usage: "random, most-frequent or least-frequent; all when unset"},
			},
		},
		{
			Name:      "summary",
			Usage:     "print the best rows of a result file",
			ArgsUsage: "FILE",
			Action:    SummaryAction,
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "top", Value: 10, Usage: "rows to print, all when 0"},
			},
		},
	},
}

// setup loads the configuration, applies flag overrides and creates the
// run logger.
func setup(c *cli.Context) (config.Config, *zap.SugaredLogger, error) {
	logger, err := logging.NewLogger("smells", c.Bool("debug"))
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg := config.Default()
	if name := c.String("config"); name != "" {
		if cfg, err = config.Load(name); err != nil {
			return cfg, nil, err
		}
	}
	if c.IsSet("root") {
		cfg.Data.Root = c.String("root")
	}
	if c.IsSet("eval-root") {
		cfg.Data.EvalRoot = c.String("eval-root")
	}
	if c.IsSet("dim") {
		cfg.Data.Dim = c.String("dim")
	}
	if c.IsSet("smell") {
		cfg.Data.Smells = c.StringSlice("smell")
	}
	if c.IsSet("out") {
		cfg.Output.Dir = c.String("out")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Int64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	logger = logger.With("run", uuid.NewString())
	logger.Infow("starting", "command", c.Command.Name, "cpu", cpuid.CPU.BrandName, "cores", cpuid.CPU.LogicalCores)
	return cfg, logger, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		logger, _ := logging.NewLogger("smells", false)
		if logger != nil {
			logger.Error(err)
		}
		stop()
		os.Exit(1)
	}
}
