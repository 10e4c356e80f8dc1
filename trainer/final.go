package trainer

import "context"

import "github.com/pkg/errors"

import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"

// FinalName is the result name of a final run for smell.
func FinalName(smell string) string {
	return smell + "final"
}

// BestConfig picks the highest F1 row of a grid search result file and
// returns its configuration, with the epochs early stopping settled on.
func BestConfig(name string) (cnn.Config, results.Row, error) {
	rows, err := results.ReadRows(name)
	if err != nil {
		return cnn.Config{}, results.Row{}, err
	}
	best, ok := results.Best(rows)
	if !ok {
		return cnn.Config{}, results.Row{}, errors.Errorf("no evaluated combination in %s", name)
	}
	c := best.Config
	c.Epochs = best.FinalEpochs()
	return c, best, nil
}

// RunFinal evaluates one configuration with an evaluate func built for final
// fits and writes its row. It is a single iteration run.
func RunFinal(ctx context.Context, c cnn.Config, r Runner) error {
	r.Configs = []cnn.Config{c}
	r.Done, r.SkipIter = nil, 0
	return r.Run(ctx)
}
