package learning

import "math"

// ProbabilityEpsilon clips probabilities before taking logarithms.
const ProbabilityEpsilon = 1e-7

func clip(p float64) float64 {
	return math.Max(ProbabilityEpsilon, math.Min(1-ProbabilityEpsilon, p))
}

func target(y bool) float64 {
	if y {
		return 1
	}
	return 0
}

// BinaryCrossEntropy returns the mean loss of probabilities against labels.
func BinaryCrossEntropy(prob []float64, y []bool) float64 {
	if len(prob) == 0 {
		return 0
	}
	var sum float64
	for i := range prob {
		p := clip(prob[i])
		if y[i] {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(prob))
}

// BinaryCrossEntropyGrad returns the gradient of the mean loss with respect
// to the output probabilities.
func BinaryCrossEntropyGrad(out [][]float64, y []bool) [][]float64 {
	grad := make([][]float64, len(out))
	n := float64(len(out))
	for i := range out {
		p := clip(out[i][0])
		grad[i] = []float64{(p - target(y[i])) / (p * (1 - p)) / n}
	}
	return grad
}

// column returns the single output of every sample.
func column(out [][]float64) []float64 {
	o := make([]float64, len(out))
	for i := range out {
		o[i] = out[i][0]
	}
	return o
}
