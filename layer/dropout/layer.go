// Package dropout implements a spatial dropout layer and combiner
package dropout

import "math/rand"

import "github.com/neurlang/smells/layer"

// SpatialDropoutLayer zeroes whole channels of a sample while training.
type SpatialDropoutLayer struct {
	rate float64
}

// SpatialDropout is a laid SpatialDropoutLayer
type SpatialDropout struct {
	shape layer.Shape
	rate  float64
	rng   *rand.Rand

	mask [][]float64
}

// New creates a spatial dropout layer dropping channels with probability rate
func New(rate float64) (*SpatialDropoutLayer, error) {
	if rate < 0 || rate >= 1 {
		return nil, layer.Invalid("New SpatialDropout: Rate %v is outside [0, 1)", rate)
	}
	return &SpatialDropoutLayer{rate: rate}, nil
}

// MustNew creates a spatial dropout layer dropping channels with probability rate
func MustNew(rate float64) *SpatialDropoutLayer {
	o, err := New(rate)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// Lay turns SpatialDropout layer into a combiner
func (i *SpatialDropoutLayer) Lay(in layer.Shape, rng *rand.Rand) (layer.Combiner, error) {
	if !in.Valid() {
		return nil, layer.Invalid("Lay SpatialDropout: Input %s is empty", in)
	}
	return &SpatialDropout{
		shape: in,
		rate:  i.rate,
		rng:   rng,
	}, nil
}
