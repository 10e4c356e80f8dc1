package main

import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/smells/config"
import "github.com/neurlang/smells/datasets"
import "github.com/neurlang/smells/results"

func prefix(cfg config.Config) string {
	return results.Prefix("cnn", cfg.Data.Dim, cfg.ResearchQuestion())
}

func load(cfg config.Config, root string, smell datasets.Smell, logger *zap.SugaredLogger) (datasets.Split, error) {
	dim := cfg.Dimension()
	dir := datasets.Path(root, smell, dim)
	samples, err := datasets.LoadDir(dir, dim, datasets.Options{Workers: cfg.Data.Workers, MaxLength: cfg.Data.MaxLength})
	if err != nil {
		return datasets.Split{}, errors.Wrapf(err, "cannot load %s", dir)
	}
	split := datasets.NewSplit(samples)
	lengths, err := datasets.LengthStats(samples, dim)
	if err != nil {
		return split, err
	}
	logger.Infow("read samples", "dir", dir, "positive", len(split.Positive), "negative", len(split.Negative),
		"min_length", lengths.Min, "max_length", lengths.Max, "mean_length", lengths.Mean)
	return split, nil
}

// readData loads and partitions the samples of smell, from one root or, in
// cross-language runs, training from the root and evaluation from the
// evaluation root.
func readData(cfg config.Config, smell datasets.Smell, logger *zap.SugaredLogger) (datasets.Data, error) {
	logger.Info("reading data...")
	split, err := load(cfg, cfg.Data.Root, smell, logger)
	if err != nil {
		return datasets.Data{}, err
	}
	var train, eval []datasets.Sample
	if cfg.Cross() {
		evalSplit, err := load(cfg, cfg.Data.EvalRoot, smell, logger)
		if err != nil {
			return datasets.Data{}, err
		}
		train, eval, err = datasets.Cross(split, evalSplit, cfg.Data.TrainRatio, cfg.Data.MaxTraining, cfg.MaxEval(smell), cfg.Seed)
		if err != nil {
			return datasets.Data{}, err
		}
	} else {
		train, eval, err = datasets.Partition(split, cfg.Data.TrainRatio, cfg.Data.MaxTraining, cfg.MaxEval(smell), cfg.Seed)
		if err != nil {
			return datasets.Data{}, err
		}
	}
	data := datasets.Pad(train, eval, cfg.Dimension())
	trainPos, evalPos := data.Positives()
	logger.Infow("reading data... done.", "train", len(data.TrainData), "train_positive", trainPos,
		"eval", len(data.EvalData), "eval_positive", evalPos, "shape", data.Shape.String())
	return data, nil
}
