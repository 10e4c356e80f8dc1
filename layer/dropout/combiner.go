package dropout

import "github.com/neurlang/smells/layer"

// Forward drops channels when training; kept channels are scaled by
// 1/(1-rate) so inference needs no rescaling.
func (d *SpatialDropout) Forward(in [][]float64, training bool) [][]float64 {
	if !training || d.rate == 0 {
		d.mask = nil
		return in
	}
	channels := d.shape.Channels
	keep := 1 / (1 - d.rate)
	out := layer.NewBatch(len(in), d.shape.Size())
	d.mask = make([][]float64, len(in))
	for b, x := range in {
		m := make([]float64, channels)
		for c := range m {
			if d.rng.Float64() >= d.rate {
				m[c] = keep
			}
		}
		for p, v := range x {
			out[b][p] = v * m[p%channels]
		}
		d.mask[b] = m
	}
	return out
}

// Backward applies the mask of the last Forward.
func (d *SpatialDropout) Backward(grad [][]float64) [][]float64 {
	if d.mask == nil {
		return grad
	}
	channels := d.shape.Channels
	dx := layer.NewBatch(len(grad), d.shape.Size())
	for b, g := range grad {
		for p, v := range g {
			dx[b][p] = v * d.mask[b][p%channels]
		}
	}
	return dx
}

// Output returns the shape of one output sample.
func (d *SpatialDropout) Output() layer.Shape {
	return d.shape
}

// Params returns nothing, dropout has no weights.
func (d *SpatialDropout) Params() []*layer.Param {
	return nil
}
