package conv2d

import "gonum.org/v1/gonum/floats"

import "github.com/neurlang/smells/layer"

// Forward convolves every sample. A kernel row covers subwidth*channels
// contiguous input values, so each filter response is a sum of row dot products.
func (f *Conv2D) Forward(in [][]float64, training bool) [][]float64 {
	span := f.span()
	row := f.subwidth * f.shape.Channels
	out := layer.NewBatch(len(in), f.out.Size())
	for b, x := range in {
		o := out[b]
		for oy := 0; oy < f.out.Height; oy++ {
			for ox := 0; ox < f.out.Width; ox++ {
				base := f.out.Index(oy, ox, 0)
				for k := 0; k < f.filters; k++ {
					w := f.kernel.Value[k*span : (k+1)*span]
					sum := f.bias.Value[k]
					for ky := 0; ky < f.subheight; ky++ {
						pos := f.shape.Index(oy+ky, ox, 0)
						sum += floats.Dot(x[pos:pos+row], w[ky*row:(ky+1)*row])
					}
					if sum < 0 {
						sum = 0
					}
					o[base+k] = sum
				}
			}
		}
	}
	f.inputs = in
	f.outputs = out
	return out
}

// Backward propagates through ReLU and the convolution.
func (f *Conv2D) Backward(grad [][]float64) [][]float64 {
	span := f.span()
	row := f.subwidth * f.shape.Channels
	dx := layer.NewBatch(len(grad), f.shape.Size())
	for b, g := range grad {
		x := f.inputs[b]
		y := f.outputs[b]
		for oy := 0; oy < f.out.Height; oy++ {
			for ox := 0; ox < f.out.Width; ox++ {
				base := f.out.Index(oy, ox, 0)
				for k := 0; k < f.filters; k++ {
					d := g[base+k]
					if d == 0 || y[base+k] <= 0 {
						continue
					}
					f.bias.Grad[k] += d
					w := f.kernel.Value[k*span : (k+1)*span]
					gw := f.kernel.Grad[k*span : (k+1)*span]
					for ky := 0; ky < f.subheight; ky++ {
						pos := f.shape.Index(oy+ky, ox, 0)
						floats.AddScaled(gw[ky*row:(ky+1)*row], d, x[pos:pos+row])
						floats.AddScaled(dx[b][pos:pos+row], d, w[ky*row:(ky+1)*row])
					}
				}
			}
		}
	}
	return dx
}

// Output returns the shape of one output sample.
func (f *Conv2D) Output() layer.Shape {
	return f.out
}

// Params returns kernel and bias.
func (f *Conv2D) Params() []*layer.Param {
	return []*layer.Param{f.kernel, f.bias}
}
