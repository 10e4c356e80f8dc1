package maxpool2d

import "github.com/neurlang/smells/layer"

// Forward pools every sample and remembers the winning input positions.
func (s *MaxPool2D) Forward(in [][]float64, training bool) [][]float64 {
	out := layer.NewBatch(len(in), s.out.Size())
	s.argmax = make([][]int, len(in))
	for b, x := range in {
		arg := make([]int, s.out.Size())
		for oy := 0; oy < s.out.Height; oy++ {
			for ox := 0; ox < s.out.Width; ox++ {
				for c := 0; c < s.out.Channels; c++ {
					best := s.shape.Index(oy*s.strideheight, ox*s.stridewidth, c)
					for ky := 0; ky < s.subheight; ky++ {
						for kx := 0; kx < s.subwidth; kx++ {
							pos := s.shape.Index(oy*s.strideheight+ky, ox*s.stridewidth+kx, c)
							if x[pos] > x[best] {
								best = pos
							}
						}
					}
					n := s.out.Index(oy, ox, c)
					out[b][n] = x[best]
					arg[n] = best
				}
			}
		}
		s.argmax[b] = arg
	}
	return out
}

// Backward routes each gradient to the input that won the window.
func (s *MaxPool2D) Backward(grad [][]float64) [][]float64 {
	dx := layer.NewBatch(len(grad), s.shape.Size())
	for b, g := range grad {
		for n, pos := range s.argmax[b] {
			dx[b][pos] += g[n]
		}
	}
	return dx
}

// Output returns the shape of one output sample.
func (s *MaxPool2D) Output() layer.Shape {
	return s.out
}

// Params returns nothing, pooling has no weights.
func (s *MaxPool2D) Params() []*layer.Param {
	return nil
}
