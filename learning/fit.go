package learning

import "context"
import "math"
import "os"

import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"

import "github.com/neurlang/smells/layer"

// Network is a trainable model with one probability output per sample.
type Network interface {
	Forward(in [][]float64, training bool) [][]float64
	Backward(grad [][]float64)
	Params() []*layer.Param
	WriteCompressedWeightsToFile(name string) error
	ReadCompressedWeightsFromFile(name string) error
}

// History records a fit.
type History struct {
	Loss    []float64 // mean training loss per epoch
	ValLoss []float64 // validation loss per epoch, empty in final mode

	// StoppedEpoch is the zero-based epoch at which early stopping ended the
	// fit, 0 when every epoch ran. In final mode it is the epoch count.
	StoppedEpoch int
	// BestEpoch is the zero-based epoch of the checkpointed weights, -1 when
	// nothing was checkpointed.
	BestEpoch int
}

// earlyStopping ends a fit once the monitored loss has not improved by
// minDelta for patience epochs.
type earlyStopping struct {
	patience int
	minDelta float64
	best     float64
	wait     int
}

func newEarlyStopping(patience int, minDelta float64) *earlyStopping {
	return &earlyStopping{patience: patience, minDelta: minDelta, best: math.Inf(1)}
}

// update reports whether the fit should stop after epoch.
func (e *earlyStopping) update(epoch int, loss float64) bool {
	if loss+e.minDelta < e.best {
		e.best = loss
		e.wait = 0
		return false
	}
	e.wait++
	return e.wait >= e.patience && epoch > 0
}

// Fit trains net on x, y in order with mini-batches and Adam.
//
// Unless h.Final, the tail h.ValidationSplit of the samples is held out; the
// fit stops early on validation loss and, when h.Checkpoint is set, the best
// weights are written there and loaded back before returning.
func Fit(ctx context.Context, net Network, x [][]float64, y []bool, h *HyperParameters) (hist History, err error) {
	hist.BestEpoch = -1
	if err = h.Validate(); err != nil {
		return hist, err
	}
	if len(x) != len(y) {
		return hist, errors.Errorf("%d samples with %d labels", len(x), len(y))
	}
	log := h.logger()

	batch := h.BatchSize
	if batch == 0 {
		batch = BatchSizeFor(len(x))
	}

	var valX [][]float64
	var valY []bool
	if !h.Final {
		at := int(float64(len(x)) * (1 - h.ValidationSplit))
		x, valX = x[:at], x[at:]
		y, valY = y[:at], y[at:]
		if len(valX) == 0 {
			return hist, errors.Errorf("validation split %v leaves no validation samples", h.ValidationSplit)
		}
	}
	if len(x) == 0 {
		return hist, errors.New("no training samples")
	}

	if !h.Final && h.Checkpoint != "" {
		if err = os.Remove(h.Checkpoint); err != nil && !os.IsNotExist(err) {
			return hist, errors.Wrap(err, "cannot remove old checkpoint")
		}
		err = nil
	}

	opt := NewAdam(net.Params(), h.LearningRate)
	stopping := newEarlyStopping(h.Patience, h.MinDelta)
	bestVal := math.Inf(1)

	for epoch := 0; epoch < h.Epochs; epoch++ {
		if err = ctx.Err(); err != nil {
			return hist, err
		}
		losses := make([]float64, 0, (len(x)+batch-1)/batch)
		for from := 0; from < len(x); from += batch {
			to := from + batch
			if to > len(x) {
				to = len(x)
			}
			opt.ZeroGrad()
			out := net.Forward(x[from:to], true)
			losses = append(losses, BinaryCrossEntropy(column(out), y[from:to]))
			net.Backward(BinaryCrossEntropyGrad(out, y[from:to]))
			opt.Step()
		}
		loss, merr := stats.Mean(losses)
		if merr != nil {
			return hist, errors.Wrap(merr, "cannot average epoch loss")
		}
		hist.Loss = append(hist.Loss, loss)

		if h.Final {
			log.Debugw("epoch", "epoch", epoch+1, "of", h.Epochs, "loss", loss)
			continue
		}

		val := BinaryCrossEntropy(Predict(net, valX, batch), valY)
		hist.ValLoss = append(hist.ValLoss, val)
		log.Debugw("epoch", "epoch", epoch+1, "of", h.Epochs, "loss", loss, "val_loss", val)

		if h.Checkpoint != "" && val < bestVal {
			if err = net.WriteCompressedWeightsToFile(h.Checkpoint); err != nil {
				return hist, errors.Wrap(err, "cannot checkpoint weights")
			}
			hist.BestEpoch = epoch
		}
		if val < bestVal {
			bestVal = val
		}
		if stopping.update(epoch, val) {
			hist.StoppedEpoch = epoch
			log.Debugw("early stopping", "epoch", epoch, "best_val_loss", bestVal)
			break
		}
	}

	if h.Final {
		hist.StoppedEpoch = h.Epochs
		return hist, nil
	}
	if hist.BestEpoch >= 0 {
		if err = net.ReadCompressedWeightsFromFile(h.Checkpoint); err != nil {
			return hist, errors.Wrap(err, "cannot restore best weights")
		}
	}
	return hist, nil
}
