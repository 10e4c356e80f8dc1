// Package cnn assembles the smell detection convolutional network.
package cnn

import "fmt"
import "math/rand"

import "github.com/pkg/errors"

import "github.com/neurlang/smells/layer"
import "github.com/neurlang/smells/layer/batchnorm"
import "github.com/neurlang/smells/layer/conv2d"
import "github.com/neurlang/smells/layer/dropout"
import "github.com/neurlang/smells/layer/full"
import "github.com/neurlang/smells/layer/maxpool2d"
import "github.com/neurlang/smells/net/feedforward"

const (
	// MaxConvLayers is the deepest supported stack of convolution blocks.
	MaxConvLayers = 3
	// PoolStride is the stride of every pooling layer along pooled axes.
	PoolStride = 2
	// DropoutRate is the spatial dropout rate after the last block.
	DropoutRate = 0.1
	// DenseUnits is the width of the hidden fully connected layer.
	DenseUnits = 32
)

// Config is one hyperparameter combination of the grid search.
type Config struct {
	ConvLayers    int
	Filters       int
	Kernel        int
	PoolingWindow int
	Epochs        int
}

func (c Config) String() string {
	return fmt.Sprintf("layers=%d filters=%d kernel=%d pooling_window=%d epochs=%d",
		c.ConvLayers, c.Filters, c.Kernel, c.PoolingWindow, c.Epochs)
}

// Validate checks the ranges which do not depend on the input shape.
func (c Config) Validate() error {
	if c.ConvLayers < 1 || c.ConvLayers > MaxConvLayers {
		return layer.Invalid("conv layers %d outside 1..%d", c.ConvLayers, MaxConvLayers)
	}
	if c.Filters < 1 || c.Kernel < 1 || c.PoolingWindow < 1 || c.Epochs < 1 {
		return layer.Invalid("non-positive hyperparameter in %s", c)
	}
	return nil
}

// New builds and lays the network for samples of shape in. One-dimensional
// samples (height 1) get 1 x kernel filters and 1 x window pooling.
//
// Each block is conv -> batch norm -> max pool; blocks after the first use
// twice the filters and Glorot uniform kernels, the first block a small
// uniform kernel. The head is spatial dropout, a ReLU dense layer and one
// sigmoid output.
func New(c Config, in layer.Shape, rng *rand.Rand) (*feedforward.FeedforwardNetwork, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kh, ph, sh := c.Kernel, c.PoolingWindow, PoolStride
	if in.Height == 1 {
		kh, ph, sh = 1, 1, 1
	}

	net := new(feedforward.FeedforwardNetwork)
	for i := 1; i <= c.ConvLayers; i++ {
		conv := conv2d.MustNew(c.Filters, kh, c.Kernel)
		if i > 1 {
			conv = conv2d.MustNew(2*c.Filters, kh, c.Kernel).Glorot()
		}
		net.NewCombiner(conv)
		net.NewCombiner(batchnorm.New())
		net.NewCombiner(maxpool2d.MustNew(ph, c.PoolingWindow, sh, PoolStride))
	}
	net.NewCombiner(dropout.MustNew(DropoutRate))
	net.NewCombiner(full.MustNew(DenseUnits, full.ReLU))
	net.NewCombiner(full.MustNew(1, full.Sigmoid))

	if err := net.Finalize(in, rng); err != nil {
		return nil, errors.Wrapf(err, "cannot build %s", c)
	}
	return net, nil
}
