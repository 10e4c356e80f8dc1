package trainer

import "context"
import "io"
import "time"

import "github.com/cheggaaa/pb/v3"
import "github.com/pkg/errors"
import "go.uber.org/zap"

import "github.com/neurlang/smells/layer"
import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"

// RowWriter receives result rows.
type RowWriter interface {
	WriteRow(r results.Row) error
}

// Runner evaluates combinations one after another and writes one row each.
type Runner struct {
	Configs  []cnn.Config
	Evaluate EvaluateFunc
	Writer   RowWriter
	Logger   *zap.SugaredLogger

	// Done holds the combinations already in the result file; they are
	// skipped wherever they appear in Configs.
	Done map[cnn.Config]bool
	// SkipIter skips the iterations numbered below it (1-based).
	SkipIter int
	// Progress receives a progress bar when set.
	Progress io.Writer

	now func() time.Time
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// pending returns the indexes of the combinations left to evaluate.
func (r *Runner) pending() []int {
	var o []int
	for i := max(r.SkipIter-1, 0); i < len(r.Configs); i++ {
		if !r.Done[r.Configs[i]] {
			o = append(o, i)
		}
	}
	return o
}

// Run evaluates every remaining combination. Invalid combinations are
// written with sentinel values; any other evaluation or write error stops
// the run. The context is checked between combinations.
func (r *Runner) Run(ctx context.Context) error {
	total := len(r.Configs)
	pending := r.pending()
	if skipped := total - len(pending); skipped > 0 {
		r.Logger.Infow("skipping evaluated combinations", "skipped", skipped, "of", total)
	}

	var bar *pb.ProgressBar
	if r.Progress != nil && len(pending) > 0 {
		bar = pb.New(len(pending)).SetWriter(r.Progress).Start()
		defer bar.Finish()
	}

	for _, i := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := r.Configs[i]
		r.Logger.Infof("** Iteration %d of %d **", i+1, total)

		start := r.clock()
		row, err := r.Evaluate(ctx, c)
		elapsed := r.clock().Sub(start)
		switch {
		case errors.Is(err, layer.ErrInvalidShape):
			r.Logger.Warnw("skipping combination", "config", c.String(), "reason", err.Error())
			row = results.SkippedRow(c)
		case err != nil:
			return errors.Wrapf(err, "iteration %d", i+1)
		default:
			row.Config = c
			row.Time = elapsed
			r.Logger.Infow("evaluated", "config", c.String(), "stopped_epoch", row.StoppedEpoch,
				"auc", row.AUC, "f1", row.F1, "time", elapsed)
		}
		if err := r.Writer.WriteRow(row); err != nil {
			return err
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return nil
}
