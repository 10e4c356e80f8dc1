package layer

import "math"
import "math/rand"

// Uniform fills dst with values drawn uniformly from [-limit, limit].
func Uniform(rng *rand.Rand, dst []float64, limit float64) {
	for i := range dst {
		dst[i] = (2*rng.Float64() - 1) * limit
	}
}

// GlorotLimit returns the Glorot uniform bound for the given fans.
func GlorotLimit(fanIn, fanOut int) float64 {
	return math.Sqrt(6 / float64(fanIn+fanOut))
}

// NewBatch allocates n zeroed samples of the given size.
func NewBatch(n, size int) [][]float64 {
	o := make([][]float64, n)
	for i := range o {
		o[i] = make([]float64, size)
	}
	return o
}
