// Package full implements a fully connected layer and combiner
package full

import "math/rand"

import "github.com/neurlang/smells/layer"

// Activation is applied to the fully connected outputs
type Activation byte

const (
	Linear Activation = iota
	ReLU
	Sigmoid
)

// FullLayer connects every input value to size outputs
type FullLayer struct {
	size       int
	activation Activation
}

// Full is a laid FullLayer
type Full struct {
	inputs, size int
	activation   Activation

	weight, bias *layer.Param

	in, out [][]float64
}

// MustNew creates a new full layer with size and activation
func MustNew(size int, activation Activation) *FullLayer {
	o, err := New(size, activation)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with size and activation
func New(size int, activation Activation) (o *FullLayer, err error) {
	if size < 1 {
		return nil, layer.Invalid("New Full: Size %d is lower than 1", size)
	}
	o = new(FullLayer)
	o.size = size
	o.activation = activation
	return
}

// Lay turns full layer into a combiner, flattening the input shape
func (i *FullLayer) Lay(in layer.Shape, rng *rand.Rand) (layer.Combiner, error) {
	if !in.Valid() {
		return nil, layer.Invalid("Lay Full: Input %s is empty", in)
	}
	o := new(Full)
	o.inputs = in.Size()
	o.size = i.size
	o.activation = i.activation
	o.weight = layer.NewParam("kernel", o.inputs*o.size)
	o.bias = layer.NewParam("bias", o.size)
	layer.Uniform(rng, o.weight.Value, layer.GlorotLimit(o.inputs, o.size))
	return o, nil
}
