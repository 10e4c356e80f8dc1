// Package layertest checks combiner gradients against finite differences.
package layertest

import "math"
import "math/rand"
import "testing"

import "github.com/neurlang/smells/layer"

const step = 1e-6

// RandomBatch returns n samples of shape s drawn uniformly from [-1, 1].
func RandomBatch(rng *rand.Rand, n int, s layer.Shape) [][]float64 {
	o := layer.NewBatch(n, s.Size())
	for _, x := range o {
		layer.Uniform(rng, x, 1)
	}
	return o
}

// CheckGradients compares the analytic input and parameter gradients of c
// for the loss sum(out * r), r random, with central differences.
func CheckGradients(tb testing.TB, c layer.Combiner, in [][]float64, tolerance float64) {
	tb.Helper()
	rng := rand.New(rand.NewSource(7))
	r := RandomBatch(rng, len(in), c.Output())
	loss := func() float64 {
		var sum float64
		for b, y := range c.Forward(in, true) {
			for p, v := range y {
				sum += v * r[b][p]
			}
		}
		return sum
	}

	for _, p := range c.Params() {
		if p.Trainable {
			p.ZeroGrad()
		}
	}
	c.Forward(in, true)
	dx := c.Backward(r)

	numeric := func(v *float64) float64 {
		orig := *v
		*v = orig + step
		plus := loss()
		*v = orig - step
		minus := loss()
		*v = orig
		return (plus - minus) / (2 * step)
	}
	check := func(what string, got, want float64) {
		if math.Abs(got-want) > tolerance*math.Max(1, math.Abs(want)) {
			tb.Errorf("%s gradient %v, numeric %v", what, got, want)
		}
	}
	for b := range in {
		for i := range in[b] {
			check("input", dx[b][i], numeric(&in[b][i]))
		}
	}
	for _, p := range c.Params() {
		if !p.Trainable {
			continue
		}
		for i := range p.Value {
			check(p.Name, p.Grad[i], numeric(&p.Value[i]))
		}
	}
}
