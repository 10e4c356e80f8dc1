package learning

import "math"

import "github.com/neurlang/smells/layer"

// Adam updates the trainable parameters from their accumulated gradients.
type Adam struct {
	LearningRate, Beta1, Beta2, Epsilon float64

	params []*layer.Param
	m, v   [][]float64
	t      int
}

// NewAdam creates an optimizer for the trainable params among params.
func NewAdam(params []*layer.Param, learningRate float64) *Adam {
	o := &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-7,
	}
	for _, p := range params {
		if !p.Trainable {
			continue
		}
		o.params = append(o.params, p)
		o.m = append(o.m, make([]float64, len(p.Value)))
		o.v = append(o.v, make([]float64, len(p.Value)))
	}
	return o
}

// ZeroGrad clears the gradients of the optimized params.
func (o *Adam) ZeroGrad() {
	for _, p := range o.params {
		p.ZeroGrad()
	}
}

// Step applies one update.
func (o *Adam) Step() {
	o.t++
	t := float64(o.t)
	rate := o.LearningRate * math.Sqrt(1-math.Pow(o.Beta2, t)) / (1 - math.Pow(o.Beta1, t))
	for i, p := range o.params {
		m, v := o.m[i], o.v[i]
		for j, g := range p.Grad {
			m[j] = o.Beta1*m[j] + (1-o.Beta1)*g
			v[j] = o.Beta2*v[j] + (1-o.Beta2)*g*g
			p.Value[j] -= rate * m[j] / (math.Sqrt(v[j]) + o.Epsilon)
		}
	}
}
