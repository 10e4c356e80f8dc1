// Package batchnorm implements a per-channel batch normalization layer and combiner
package batchnorm

import "math/rand"

import "github.com/neurlang/smells/layer"

const (
	// DefaultMomentum weighs the previous moving statistics.
	DefaultMomentum = 0.99
	// DefaultEpsilon is added to the variance before the square root.
	DefaultEpsilon = 1e-3
)

// BatchNormLayer normalizes every channel over the batch and spatial positions.
type BatchNormLayer struct {
	momentum, epsilon float64
}

// BatchNorm is a laid BatchNormLayer
type BatchNorm struct {
	shape             layer.Shape
	momentum, epsilon float64

	gamma, beta           *layer.Param
	movingMean, movingVar *layer.Param
	xhat                  [][]float64
	std                   []float64
}

// New creates a batch normalization layer with the default momentum and epsilon
func New() *BatchNormLayer {
	return &BatchNormLayer{
		momentum: DefaultMomentum,
		epsilon:  DefaultEpsilon,
	}
}

// Lay turns BatchNorm layer into a combiner
func (i *BatchNormLayer) Lay(in layer.Shape, _ *rand.Rand) (layer.Combiner, error) {
	if !in.Valid() {
		return nil, layer.Invalid("Lay BatchNorm: Input %s is empty", in)
	}
	o := &BatchNorm{
		shape:      in,
		momentum:   i.momentum,
		epsilon:    i.epsilon,
		gamma:      layer.NewParam("gamma", in.Channels),
		beta:       layer.NewParam("beta", in.Channels),
		movingMean: layer.NewState("moving_mean", in.Channels),
		movingVar:  layer.NewState("moving_variance", in.Channels),
	}
	for c := 0; c < in.Channels; c++ {
		o.gamma.Value[c] = 1
		o.movingVar.Value[c] = 1
	}
	return o, nil
}
