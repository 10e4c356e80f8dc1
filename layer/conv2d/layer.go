// Package conv2d implements a 2D convolution layer and combiner
package conv2d

import "math/rand"

import "github.com/neurlang/smells/layer"

// KernelLimit bounds the uniform initialization of kernel weights.
const KernelLimit = 0.05

// Conv2DLayer is a valid-padding, stride 1 convolution followed by ReLU.
type Conv2DLayer struct {
	filters, subheight, subwidth int

	glorot bool
}

// Conv2D is a laid Conv2DLayer
type Conv2D struct {
	shape, out                   layer.Shape
	filters, subheight, subwidth int

	kernel, bias *layer.Param

	inputs, outputs [][]float64
}

// MustNew creates a new Conv2D layer with filters and kernel size
func MustNew(filters, subheight, subwidth int) *Conv2DLayer {
	o, err := New(filters, subheight, subwidth)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer with filters and kernel size
func New(filters, subheight, subwidth int) (o *Conv2DLayer, err error) {
	if filters < 1 {
		return nil, layer.Invalid("New Conv2D: Filters %d is lower than 1", filters)
	}
	if subheight < 1 || subwidth < 1 {
		return nil, layer.Invalid("New Conv2D: Kernel %dx%d is empty", subheight, subwidth)
	}
	o = new(Conv2DLayer)
	o.filters = filters
	o.subheight = subheight
	o.subwidth = subwidth
	return
}

// Glorot switches the kernel initialization from the KernelLimit uniform
// to Glorot uniform.
func (i *Conv2DLayer) Glorot() *Conv2DLayer {
	i.glorot = true
	return i
}

// Lay turns Conv2D layer into a combiner
func (i *Conv2DLayer) Lay(in layer.Shape, rng *rand.Rand) (layer.Combiner, error) {
	if !in.Valid() {
		return nil, layer.Invalid("Lay Conv2D: Input %s is empty", in)
	}
	if in.Width < i.subwidth {
		return nil, layer.Invalid("Lay Conv2D: Width %d is lower than Subwidth %d", in.Width, i.subwidth)
	}
	if in.Height < i.subheight {
		return nil, layer.Invalid("Lay Conv2D: Height %d is lower than Subheight %d", in.Height, i.subheight)
	}
	var o Conv2D
	o.shape = in
	o.out = layer.Shape{
		Height:   in.Height - i.subheight + 1,
		Width:    in.Width - i.subwidth + 1,
		Channels: i.filters,
	}
	o.filters = i.filters
	o.subheight = i.subheight
	o.subwidth = i.subwidth
	o.kernel = layer.NewParam("kernel", i.filters*o.span())
	o.bias = layer.NewParam("bias", i.filters)
	limit := KernelLimit
	if i.glorot {
		area := i.subheight * i.subwidth
		limit = layer.GlorotLimit(area*in.Channels, area*i.filters)
	}
	layer.Uniform(rng, o.kernel.Value, limit)
	return &o, nil
}

// span is the number of weights of one filter
func (f *Conv2D) span() int {
	return f.subheight * f.subwidth * f.shape.Channels
}
