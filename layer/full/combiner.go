package full

import "math"

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/smells/layer"

func (f *Full) activate(z float64) float64 {
	switch f.activation {
	case ReLU:
		if z < 0 {
			return 0
		}
	case Sigmoid:
		return 1 / (1 + math.Exp(-z))
	}
	return z
}

// derivative of the activation expressed through its output
func (f *Full) derivative(y float64) float64 {
	switch f.activation {
	case ReLU:
		if y <= 0 {
			return 0
		}
	case Sigmoid:
		return y * (1 - y)
	}
	return 1
}

// Forward computes the activated outputs for every sample.
func (f *Full) Forward(in [][]float64, training bool) [][]float64 {
	out := layer.NewBatch(len(in), f.size)
	for b, x := range in {
		for j := 0; j < f.size; j++ {
			z := floats.Dot(x, f.weight.Value[j*f.inputs:(j+1)*f.inputs]) + f.bias.Value[j]
			out[b][j] = f.activate(z)
		}
	}
	f.in = in
	f.out = out
	return out
}

// Backward propagates through the activation and the weights.
func (f *Full) Backward(grad [][]float64) [][]float64 {
	dx := layer.NewBatch(len(grad), f.inputs)
	for b, g := range grad {
		for j, d := range g {
			dz := d * f.derivative(f.out[b][j])
			if dz == 0 {
				continue
			}
			f.bias.Grad[j] += dz
			floats.AddScaled(f.weight.Grad[j*f.inputs:(j+1)*f.inputs], dz, f.in[b])
			floats.AddScaled(dx[b], dz, f.weight.Value[j*f.inputs:(j+1)*f.inputs])
		}
	}
	return dx
}

// Output returns the shape of one output sample.
func (f *Full) Output() layer.Shape {
	return layer.Shape{Height: 1, Width: 1, Channels: f.size}
}

// Params returns weight and bias.
func (f *Full) Params() []*layer.Param {
	return []*layer.Param{f.weight, f.bias}
}
