package trainer

import "context"
import "math/rand"
import "os"
import "path/filepath"

import "github.com/google/uuid"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/smells/datasets"
import "github.com/neurlang/smells/hash"
import "github.com/neurlang/smells/learning"
import "github.com/neurlang/smells/metrics"
import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"

// EvaluateFunc trains and evaluates one combination. An error wrapping
// layer.ErrInvalidShape marks an invalid combination.
type EvaluateFunc func(ctx context.Context, c cnn.Config) (results.Row, error)

// EvaluateOptions configure NewEvaluateFunc.
type EvaluateOptions struct {
	// Seed is combined with every configuration into the network seed.
	Seed int64
	// Threshold turns probabilities into predictions.
	Threshold float64
	// Fit is the hyperparameter template; Epochs comes from the
	// configuration.
	Fit learning.HyperParameters
	// CheckpointDir holds the best weights during a fit, the system
	// temporary directory when empty.
	CheckpointDir string
}

// NewEvaluateFunc evaluates configurations on data: build the network, fit
// it on the training set, predict the evaluation set and measure.
func NewEvaluateFunc(data datasets.Data, opts EvaluateOptions, logger *zap.SugaredLogger) EvaluateFunc {
	if opts.Threshold == 0 {
		opts.Threshold = learning.DefaultThreshold
	}
	return func(ctx context.Context, c cnn.Config) (row results.Row, err error) {
		row.Config = c
		seed := hash.Seed(opts.Seed, c.ConvLayers, c.Filters, c.Kernel, c.PoolingWindow, c.Epochs)
		net, err := cnn.New(c, data.Shape, rand.New(rand.NewSource(seed)))
		if err != nil {
			return row, err
		}
		logger.Debugf("network %s\n%s", c, net.Summary())

		h := opts.Fit
		h.Epochs = c.Epochs
		h.SetLogger(logger)
		if !h.Final {
			dir := opts.CheckpointDir
			if dir == "" {
				dir = os.TempDir()
			}
			h.Checkpoint = filepath.Join(dir, "best_model_"+uuid.NewString()+".json.lzw")
			defer os.Remove(h.Checkpoint)
		}

		hist, err := learning.Fit(ctx, net, data.TrainData, data.TrainLabels, &h)
		if err != nil {
			return row, errors.Wrapf(err, "cannot fit %s", c)
		}
		row.StoppedEpoch = hist.StoppedEpoch

		batch := h.BatchSize
		if batch == 0 {
			batch = learning.BatchSizeFor(len(data.TrainData))
		}
		prob := learning.Predict(net, data.EvalData, batch)
		pred := learning.Threshold(prob, opts.Threshold)
		row.Report = metrics.Evaluate(data.EvalLabels, prob, pred)
		return row, nil
	}
}
