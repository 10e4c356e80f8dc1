package layer

import "fmt"
import "math/rand"

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Lay creates a combiner reading inputs of shape in. Weights are drawn
	// from rng. It fails with an error wrapping ErrInvalidShape when the
	// layer does not fit the input.
	Lay(in Shape, rng *rand.Rand) (Combiner, error)
}

// Shape is the channels-last shape of one sample flowing between layers.
type Shape struct {
	Height, Width, Channels int
}

// Size returns the number of values in one sample of this shape.
func (s Shape) Size() int {
	return s.Height * s.Width * s.Channels
}

// Index returns the flat position of value (y, x, c).
func (s Shape) Index(y, x, c int) int {
	return (y*s.Width+x)*s.Channels + c
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	return s.Height > 0 && s.Width > 0 && s.Channels > 0
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Height, s.Width, s.Channels)
}
