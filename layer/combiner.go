// Package layer defines a custom combiner and layer interface
package layer

import "github.com/pkg/errors"

// ErrInvalidShape is returned when a layer cannot be laid on its input, for
// example when a kernel or pooling window is larger than the input.
var ErrInvalidShape = errors.New("invalid layer shape")

// Combiner is a laid layer: it transforms a batch of flat samples and
// propagates gradients back through itself.
type Combiner interface {

	// Forward computes the outputs for a batch. Training enables batch
	// statistics and dropout; the combiner keeps what Backward needs.
	Forward(in [][]float64, training bool) [][]float64

	// Backward takes the loss gradient with respect to the last Forward
	// outputs, accumulates parameter gradients and returns the gradient
	// with respect to the inputs.
	Backward(grad [][]float64) [][]float64

	// Output returns the shape of one output sample.
	Output() Shape

	// Params returns the parameters owned by the combiner.
	Params() []*Param
}

// Param is a parameter tensor with its accumulated gradient. Non-trainable
// params (moving statistics) are persisted but never optimized.
type Param struct {
	Name      string
	Value     []float64
	Grad      []float64
	Trainable bool
}

// NewParam allocates a trainable parameter of size n.
func NewParam(name string, n int) *Param {
	return &Param{
		Name:      name,
		Value:     make([]float64, n),
		Grad:      make([]float64, n),
		Trainable: true,
	}
}

// NewState allocates a non-trainable parameter of size n.
func NewState(name string, n int) *Param {
	return &Param{
		Name:  name,
		Value: make([]float64, n),
	}
}

// ZeroGrad clears the accumulated gradient.
func (p *Param) ZeroGrad() {
	for i := range p.Grad {
		p.Grad[i] = 0
	}
}

// Invalid wraps ErrInvalidShape with a formatted message.
func Invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidShape, format, args...)
}
