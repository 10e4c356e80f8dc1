package learning

// Predict returns the positive class probability of every sample, inferring
// batch samples at a time.
func Predict(net Network, x [][]float64, batch int) []float64 {
	if batch < 1 {
		batch = BatchSizeFor(len(x))
	}
	o := make([]float64, 0, len(x))
	for from := 0; from < len(x); from += batch {
		to := from + batch
		if to > len(x) {
			to = len(x)
		}
		for _, out := range net.Forward(x[from:to], false) {
			o = append(o, out[0])
		}
	}
	return o
}

// Threshold turns probabilities into class predictions: positive when the
// probability exceeds threshold.
func Threshold(p []float64, threshold float64) []bool {
	o := make([]bool, len(p))
	for i, v := range p {
		o[i] = v > threshold
	}
	return o
}
