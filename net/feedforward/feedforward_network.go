// Package feedforward implements a feedforward network type
package feedforward

import "fmt"
import "math/rand"
import "strings"

import "github.com/pkg/errors"

import "github.com/neurlang/smells/layer"

// FeedforwardNetwork is the feedforward network
type FeedforwardNetwork struct {
	layers    []layer.Layer
	combiners []layer.Combiner
	input     layer.Shape
}

// NewCombiner adds a layer to the end of network. The layer is laid
// (instantiated) by Finalize.
func (f *FeedforwardNetwork) NewCombiner(l layer.Layer) {
	f.layers = append(f.layers, l)
}

// Finalize lays every layer on the output shape of the previous one, starting
// from the sample shape in. The error of the first layer which does not fit
// is returned, wrapping layer.ErrInvalidShape.
func (f *FeedforwardNetwork) Finalize(in layer.Shape, rng *rand.Rand) error {
	f.input = in
	f.combiners = make([]layer.Combiner, 0, len(f.layers))
	shape := in
	for i, l := range f.layers {
		c, err := l.Lay(shape, rng)
		if err != nil {
			f.combiners = nil
			return errors.Wrapf(err, "layer %d on input %s", i, shape)
		}
		f.combiners = append(f.combiners, c)
		shape = c.Output()
	}
	return nil
}

// Len returns the number of layers in the network.
func (f FeedforwardNetwork) Len() int {
	return len(f.layers)
}

// Input returns the sample shape the network was finalized with.
func (f FeedforwardNetwork) Input() layer.Shape {
	return f.input
}

// Output returns the shape of one network output.
func (f FeedforwardNetwork) Output() layer.Shape {
	if len(f.combiners) == 0 {
		return f.input
	}
	return f.combiners[len(f.combiners)-1].Output()
}

// Forward infers the network outputs for a batch of flat samples.
func (f *FeedforwardNetwork) Forward(in [][]float64, training bool) [][]float64 {
	out := in
	for _, c := range f.combiners {
		out = c.Forward(out, training)
	}
	return out
}

// Backward propagates the loss gradient of the last Forward through the
// network, accumulating gradients into the parameters.
func (f *FeedforwardNetwork) Backward(grad [][]float64) {
	for i := len(f.combiners) - 1; i >= 0; i-- {
		grad = f.combiners[i].Backward(grad)
	}
}

// Params returns every parameter of the network in layer order.
func (f FeedforwardNetwork) Params() (o []*layer.Param) {
	for _, c := range f.combiners {
		o = append(o, c.Params()...)
	}
	return
}

// CountParams returns the number of trainable and non-trainable weights.
func (f FeedforwardNetwork) CountParams() (trainable, other int) {
	for _, p := range f.Params() {
		if p.Trainable {
			trainable += len(p.Value)
		} else {
			other += len(p.Value)
		}
	}
	return
}

// Summary describes every layer with its output shape and weight count.
func (f FeedforwardNetwork) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input %s\n", f.input)
	for i, c := range f.combiners {
		var n int
		for _, p := range c.Params() {
			n += len(p.Value)
		}
		name := strings.TrimPrefix(fmt.Sprintf("%T", c), "*")
		fmt.Fprintf(&b, "%2d %-28s %-16s %d\n", i, name, c.Output(), n)
	}
	trainable, other := f.CountParams()
	fmt.Fprintf(&b, "params: %d trainable, %d non-trainable", trainable, other)
	return b.String()
}
