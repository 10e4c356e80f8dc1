package learning

import "github.com/pkg/errors"
import "go.uber.org/zap"

// DefaultThreshold is the probability from which a sample is predicted positive.
const DefaultThreshold = 0.7

var batchSizes = [...]int{32, 64, 128, 256}

// BatchSizeFor picks the mini-batch size for a training set of n samples.
func BatchSizeFor(n int) int {
	i := n / 512
	if i >= len(batchSizes) {
		i = len(batchSizes) - 1
	}
	return batchSizes[i]
}

// SetLogger sets the logger receiving per-epoch progress.
func (h *HyperParameters) SetLogger(l *zap.SugaredLogger) {
	h.l = l
}

func (h *HyperParameters) logger() *zap.SugaredLogger {
	if h.l == nil {
		return zap.NewNop().Sugar()
	}
	return h.l
}

type HyperParameters struct {
	Epochs    int // maximum number of passes over the training set
	BatchSize int // samples per gradient step, BatchSizeFor(len) when zero

	LearningRate float64 // Adam step size

	ValidationSplit float64 // fraction taken from the tail of the training set
	Patience        int     // epochs without val loss improvement before stopping
	MinDelta        float64 // smallest val loss decrease counted as improvement

	Checkpoint string // best val loss weights file, none when empty

	Final bool // train on everything for Epochs, no validation or early stopping

	l *zap.SugaredLogger
}

// NewHyperParameters returns the defaults for a grid search fit.
func NewHyperParameters(epochs int) *HyperParameters {
	return &HyperParameters{
		Epochs:          epochs,
		LearningRate:    0.001,
		ValidationSplit: 0.2,
		Patience:        5,
		MinDelta:        1e-4,
	}
}

// Validate checks the ranges of the hyperparameters.
func (h *HyperParameters) Validate() error {
	if h.Epochs < 1 {
		return errors.Errorf("epochs %d is lower than 1", h.Epochs)
	}
	if h.BatchSize < 0 {
		return errors.Errorf("batch size %d is negative", h.BatchSize)
	}
	if h.LearningRate <= 0 {
		return errors.Errorf("learning rate %v is not positive", h.LearningRate)
	}
	if !h.Final && (h.ValidationSplit <= 0 || h.ValidationSplit >= 1) {
		return errors.Errorf("validation split %v outside (0, 1)", h.ValidationSplit)
	}
	if h.Patience < 1 && !h.Final {
		return errors.Errorf("patience %d is lower than 1", h.Patience)
	}
	return nil
}
