// Package maxpool2d implements a 2D max pooling layer and combiner
package maxpool2d

import "math/rand"

import "github.com/neurlang/smells/layer"

// MaxPool2DLayer takes the maximum of every subheight x subwidth window,
// moving by the strides. Windows must fit entirely (valid padding).
type MaxPool2DLayer struct {
	subheight, subwidth, strideheight, stridewidth int
}

// MaxPool2D is a laid MaxPool2DLayer
type MaxPool2D struct {
	shape, out                                     layer.Shape
	subheight, subwidth, strideheight, stridewidth int

	argmax [][]int
}

// MustNew creates a new MaxPool2D layer with window and strides
func MustNew(subheight, subwidth, strideheight, stridewidth int) *MaxPool2DLayer {
	o, err := New(subheight, subwidth, strideheight, stridewidth)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new MaxPool2D layer with window and strides
func New(subheight, subwidth, strideheight, stridewidth int) (o *MaxPool2DLayer, err error) {
	if subheight < 1 || subwidth < 1 {
		return nil, layer.Invalid("New MaxPool2D: Window %dx%d is empty", subheight, subwidth)
	}
	if strideheight < 1 || stridewidth < 1 {
		return nil, layer.Invalid("New MaxPool2D: Stride %dx%d is empty", strideheight, stridewidth)
	}
	o = new(MaxPool2DLayer)
	o.subheight = subheight
	o.subwidth = subwidth
	o.strideheight = strideheight
	o.stridewidth = stridewidth
	return
}

// Lay turns MaxPool2D layer into a combiner
func (i *MaxPool2DLayer) Lay(in layer.Shape, _ *rand.Rand) (layer.Combiner, error) {
	if !in.Valid() {
		return nil, layer.Invalid("Lay MaxPool2D: Input %s is empty", in)
	}
	if in.Width < i.subwidth {
		return nil, layer.Invalid("Lay MaxPool2D: Width %d is lower than Subwidth %d", in.Width, i.subwidth)
	}
	if in.Height < i.subheight {
		return nil, layer.Invalid("Lay MaxPool2D: Height %d is lower than Subheight %d", in.Height, i.subheight)
	}
	var o MaxPool2D
	o.shape = in
	o.out = layer.Shape{
		Height:   (in.Height-i.subheight)/i.strideheight + 1,
		Width:    (in.Width-i.subwidth)/i.stridewidth + 1,
		Channels: in.Channels,
	}
	o.subheight = i.subheight
	o.subwidth = i.subwidth
	o.strideheight = i.strideheight
	o.stridewidth = i.stridewidth
	return &o, nil
}
