package batchnorm

import "math"

import "gonum.org/v1/gonum/stat"

import "github.com/neurlang/smells/layer"

// channel gathers the values of channel c across the batch.
func (n *BatchNorm) channel(in [][]float64, c int) []float64 {
	o := make([]float64, 0, len(in)*n.shape.Height*n.shape.Width)
	for _, x := range in {
		for p := c; p < len(x); p += n.shape.Channels {
			o = append(o, x[p])
		}
	}
	return o
}

// Forward normalizes with batch statistics when training and with the
// moving statistics otherwise.
func (n *BatchNorm) Forward(in [][]float64, training bool) [][]float64 {
	channels := n.shape.Channels
	out := layer.NewBatch(len(in), n.shape.Size())
	mean := make([]float64, channels)
	std := make([]float64, channels)
	for c := 0; c < channels; c++ {
		if training {
			m, v := stat.PopMeanVariance(n.channel(in, c), nil)
			mean[c] = m
			std[c] = math.Sqrt(v + n.epsilon)
			n.movingMean.Value[c] = n.movingMean.Value[c]*n.momentum + m*(1-n.momentum)
			n.movingVar.Value[c] = n.movingVar.Value[c]*n.momentum + v*(1-n.momentum)
		} else {
			mean[c] = n.movingMean.Value[c]
			std[c] = math.Sqrt(n.movingVar.Value[c] + n.epsilon)
		}
	}
	xhat := layer.NewBatch(len(in), n.shape.Size())
	for b, x := range in {
		for p, v := range x {
			c := p % channels
			xhat[b][p] = (v - mean[c]) / std[c]
			out[b][p] = n.gamma.Value[c]*xhat[b][p] + n.beta.Value[c]
		}
	}
	if training {
		n.xhat = xhat
		n.std = std
	}
	return out
}

// Backward propagates through the batch statistics of the last training Forward.
func (n *BatchNorm) Backward(grad [][]float64) [][]float64 {
	channels := n.shape.Channels
	sumDy := make([]float64, channels)
	sumDyXhat := make([]float64, channels)
	for b, g := range grad {
		for p, d := range g {
			c := p % channels
			sumDy[c] += d
			sumDyXhat[c] += d * n.xhat[b][p]
		}
	}
	for c := 0; c < channels; c++ {
		n.beta.Grad[c] += sumDy[c]
		n.gamma.Grad[c] += sumDyXhat[c]
	}
	m := float64(len(grad) * n.shape.Height * n.shape.Width)
	dx := layer.NewBatch(len(grad), n.shape.Size())
	for b, g := range grad {
		for p, d := range g {
			c := p % channels
			scale := n.gamma.Value[c] / (m * n.std[c])
			dx[b][p] = scale * (m*d - sumDy[c] - n.xhat[b][p]*sumDyXhat[c])
		}
	}
	return dx
}

// Output returns the shape of one output sample.
func (n *BatchNorm) Output() layer.Shape {
	return n.shape
}

// Params returns gamma, beta and the moving statistics.
func (n *BatchNorm) Params() []*layer.Param {
	return []*layer.Param{n.gamma, n.beta, n.movingMean, n.movingVar}
}
