package main

import "time"

import "github.com/pkg/errors"
import "github.com/urfave/cli/v2"
import "go.uber.org/multierr"

import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"
import "github.com/neurlang/smells/trainer"

// FinalAction retrains the best, or the given, combination of every smell on
// the whole training set and writes it to a <smell>final result file.
func FinalAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	smells, err := cfg.Smells()
	if err != nil {
		return err
	}
	for _, smell := range smells {
		log := logger.Named(string(smell))

		var conf cnn.Config
		if c.IsSet("layers") {
			conf = cnn.Config{
				ConvLayers:    c.Int("layers"),
				Filters:       c.Int("filters"),
				Kernel:        c.Int("kernel"),
				PoolingWindow: c.Int("window"),
				Epochs:        c.Int("epochs"),
			}
		} else {
			from := c.String("from")
			if from == "" {
				if from, err = trainer.Latest(cfg.Output.Dir, prefix(cfg), string(smell)); err != nil {
					return err
				}
				if from == "" {
					return errors.Errorf("no grid results of %s in %s, pass --from or --layers", smell, cfg.Output.Dir)
				}
			}
			var best results.Row
			if conf, best, err = trainer.BestConfig(from); err != nil {
				return err
			}
			log.Infow("best combination", "file", from, "config", best.Config.String(),
				"stopped_epoch", best.StoppedEpoch, "f1", best.F1)
		}

		data, err := readData(cfg, smell, log)
		if err != nil {
			return err
		}
		name := results.FileName(cfg.Output.Dir, prefix(cfg), trainer.FinalName(string(smell)), time.Now())
		w, err := results.Create(name, results.Header)
		if err != nil {
			return err
		}
		runner := trainer.Runner{
			Evaluate: trainer.NewEvaluateFunc(data, trainer.EvaluateOptions{
				Seed:      cfg.Seed,
				Threshold: cfg.Fit.Threshold,
				Fit:       cfg.HyperParameters(true),
			}, log),
			Writer: w,
			Logger: log,
		}
		if err := multierr.Append(trainer.RunFinal(c.Context, conf, runner), w.Close()); err != nil {
			return err
		}
		log.Infow("final result written", "file", name)
	}
	return nil
}
