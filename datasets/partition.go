package datasets

import "math"
import "math/rand"

import "github.com/pkg/errors"

const (
	// DefaultTrainRatio is the share of positive samples used for training.
	DefaultTrainRatio = 0.7
	// DefaultMaxTraining caps the balanced training set.
	DefaultMaxTraining = 5000
)

// Split holds samples separated by label.
type Split struct {
	Positive, Negative []Sample
}

// NewSplit separates positive and negative samples.
func NewSplit(samples []Sample) (o Split) {
	for _, s := range samples {
		if s.Label {
			o.Positive = append(o.Positive, s)
		} else {
			o.Negative = append(o.Negative, s)
		}
	}
	return
}

// shuffled returns shuffled copies of both classes.
func (s Split) shuffled(rng *rand.Rand) (pos, neg []Sample) {
	pos = append([]Sample(nil), s.Positive...)
	neg = append([]Sample(nil), s.Negative...)
	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	rng.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })
	return
}

// balanced takes floor(len(pos)*ratio) positives, at most maxTraining/2, and
// as many negatives as available up to that count. It returns the training
// set, shuffled, and the remaining samples.
func balanced(pos, neg []Sample, ratio float64, maxTraining int, rng *rand.Rand) (train, restPos, restNeg []Sample, err error) {
	n := int(math.Floor(float64(len(pos)) * ratio))
	if maxTraining > 0 && n > maxTraining/2 {
		n = maxTraining / 2
	}
	m := n
	if m > len(neg) {
		m = len(neg)
	}
	if n == 0 || m == 0 {
		return nil, nil, nil, errors.Errorf("no balanced training set from %d positive and %d negative samples", len(pos), len(neg))
	}
	train = make([]Sample, 0, n+m)
	train = append(train, pos[:n]...)
	train = append(train, neg[:m]...)
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	return train, pos[n:], neg[m:], nil
}

// capped shuffles samples and keeps at most max of them when max is positive.
func capped(samples []Sample, max int, rng *rand.Rand) []Sample {
	rng.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })
	if max > 0 && len(samples) > max {
		samples = samples[:max]
	}
	return samples
}

// Partition divides one dataset into a balanced training set and an
// evaluation set of every remaining sample, capped at maxEval when positive.
func Partition(s Split, ratio float64, maxTraining, maxEval int, seed int64) (train, eval []Sample, err error) {
	if ratio <= 0 || ratio > 1 {
		return nil, nil, errors.Errorf("train ratio %v outside (0, 1]", ratio)
	}
	rng := rand.New(rand.NewSource(seed))
	pos, neg := s.shuffled(rng)
	train, restPos, restNeg, err := balanced(pos, neg, ratio, maxTraining, rng)
	if err != nil {
		return nil, nil, err
	}
	eval = capped(append(restPos, restNeg...), maxEval, rng)
	if len(eval) == 0 {
		return nil, nil, errors.New("no samples left for evaluation")
	}
	return train, eval, nil
}

// Cross takes a balanced training set from one dataset and evaluates on all
// samples of another, capped at maxEval when positive.
func Cross(training, evaluation Split, ratio float64, maxTraining, maxEval int, seed int64) (train, eval []Sample, err error) {
	if ratio <= 0 || ratio > 1 {
		return nil, nil, errors.Errorf("train ratio %v outside (0, 1]", ratio)
	}
	rng := rand.New(rand.NewSource(seed))
	pos, neg := training.shuffled(rng)
	train, _, _, err = balanced(pos, neg, ratio, maxTraining, rng)
	if err != nil {
		return nil, nil, err
	}
	epos, eneg := evaluation.shuffled(rng)
	eval = capped(append(epos, eneg...), maxEval, rng)
	if len(eval) == 0 {
		return nil, nil, errors.New("no evaluation samples")
	}
	return train, eval, nil
}
