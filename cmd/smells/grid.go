package main

import "os"
import "time"

import "github.com/pkg/errors"
import "github.com/urfave/cli/v2"

import "github.com/neurlang/smells/results"
import "github.com/neurlang/smells/trainer"

// GridAction runs the grid search for every configured smell.
func GridAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if c.IsSet("resume") {
		cfg.Output.Resume = c.String("resume")
	}
	if c.IsSet("skip-iter") {
		cfg.Output.SkipIter = c.Int("skip-iter")
	}
	if c.Bool("no-progress") {
		cfg.Output.Progress = false
	}
	smells, err := cfg.Smells()
	if err != nil {
		return err
	}
	if cfg.Output.Resume != "" && len(smells) > 1 {
		return errors.Errorf("cannot resume %s for %d smells", cfg.Output.Resume, len(smells))
	}
	for _, smell := range smells {
		log := logger.Named(string(smell))
		data, err := readData(cfg, smell, log)
		if err != nil {
			return err
		}

		name := cfg.Output.Resume
		if name == "" {
			name = results.FileName(cfg.Output.Dir, prefix(cfg), string(smell), time.Now())
		}
		done, err := trainer.Resume(name)
		if err != nil {
			return err
		}
		w, err := results.Create(name, results.Header)
		if err != nil {
			return err
		}
		log.Infow("writing results", "file", w.Name(), "done", len(done))

		runner := trainer.Runner{
			Configs: cfg.Grid.Configs(),
			Evaluate: trainer.NewEvaluateFunc(data, trainer.EvaluateOptions{
				Seed:      cfg.Seed,
				Threshold: cfg.Fit.Threshold,
				Fit:       cfg.HyperParameters(false),
			}, log),
			Writer:   w,
			Logger:   log,
			Done:     done,
			SkipIter: cfg.Output.SkipIter,
		}
		if cfg.Output.Progress {
			runner.Progress = os.Stderr
		}
		err = runner.Run(c.Context)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}
