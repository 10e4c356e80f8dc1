package trainer

import "math/rand"

import "github.com/pkg/errors"
import "github.com/samber/lo"

import "github.com/neurlang/smells/datasets"
import "github.com/neurlang/smells/metrics"
import "github.com/neurlang/smells/results"

// Strategy names a trivial classifier.
type Strategy string

const (
	// Random predicts 0 or 1 uniformly.
	Random Strategy = "random"
	// MostFrequent predicts the majority training class, negative on ties.
	MostFrequent Strategy = "most-frequent"
	// LeastFrequent predicts the minority training class, negative on ties.
	LeastFrequent Strategy = "least-frequent"
)

// Strategies lists every baseline strategy.
var Strategies = []Strategy{Random, MostFrequent, LeastFrequent}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	if !lo.Contains(Strategies, Strategy(s)) {
		return "", errors.Errorf("unknown baseline %q, want one of %v", s, Strategies)
	}
	return Strategy(s), nil
}

// FileName returns the result name of a baseline run.
func (s Strategy) FileName() string {
	switch s {
	case Random:
		return "random_classifier"
	default:
		return "dummy_classifier_" + string(s)
	}
}

// Predict returns the predictions of the strategy for n evaluation samples.
func (s Strategy) Predict(trainLabels []bool, n int, rng *rand.Rand) ([]bool, error) {
	pos := lo.Count(trainLabels, true)
	neg := len(trainLabels) - pos
	var constant bool
	switch s {
	case Random:
		return lo.Times(n, func(int) bool { return rng.Intn(2) == 1 }), nil
	case MostFrequent:
		constant = pos > neg
	case LeastFrequent:
		constant = pos < neg
	default:
		return nil, errors.Errorf("unknown baseline %q", s)
	}
	return lo.Times(n, func(int) bool { return constant }), nil
}

// Baseline evaluates the strategy on data.
func Baseline(s Strategy, smell string, data datasets.Data, seed int64) (results.BaselineRow, error) {
	pred, err := s.Predict(data.TrainLabels, len(data.EvalLabels), rand.New(rand.NewSource(seed)))
	if err != nil {
		return results.BaselineRow{}, err
	}
	return results.BaselineRow{
		Smell:  smell,
		Report: metrics.Evaluate(data.EvalLabels, metrics.Scores(pred), pred),
	}, nil
}
