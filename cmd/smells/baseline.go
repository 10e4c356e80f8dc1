package main

import "time"

import "github.com/urfave/cli/v2"
import "go.uber.org/multierr"

import "github.com/neurlang/smells/results"
import "github.com/neurlang/smells/trainer"

// BaselineAction evaluates trivial classifiers on the partition the grid
// search uses, one file per strategy and one row per smell.
func BaselineAction(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	strategies := trainer.Strategies
	if c.IsSet("strategy") {
		strategies = nil
		for _, s := range c.StringSlice("strategy") {
			strategy, err := trainer.ParseStrategy(s)
			if err != nil {
				return err
			}
			strategies = append(strategies, strategy)
		}
	}
	smells, err := cfg.Smells()
	if err != nil {
		return err
	}

	writers := make([]*results.Writer, len(strategies))
	for i, s := range strategies {
		name := results.FileName(cfg.Output.Dir, prefix(cfg), s.FileName(), time.Now())
		if writers[i], err = results.Create(name, results.BaselineHeader); err != nil {
			return multierr.Append(err, closeAll(writers[:i]))
		}
	}

	for _, smell := range smells {
		log := logger.Named(string(smell))
		data, err := readData(cfg, smell, log)
		if err != nil {
			return multierr.Append(err, closeAll(writers))
		}
		for i, s := range strategies {
			row, err := trainer.Baseline(s, string(smell), data, cfg.Seed)
			if err == nil {
				err = writers[i].Write(row.Record())
			}
			if err != nil {
				return multierr.Append(err, closeAll(writers))
			}
			log.Infow("baseline", "strategy", string(s), "auc", row.AUC, "precision", row.Precision,
				"recall", row.Recall, "f1", row.F1)
		}
	}
	return closeAll(writers)
}

func closeAll(writers []*results.Writer) (err error) {
	for _, w := range writers {
		err = multierr.Append(err, w.Close())
	}
	return err
}
