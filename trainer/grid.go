package trainer

import "sort"

import "github.com/samber/lo"

import "github.com/neurlang/smells/net/cnn"

// Grid holds the candidate values of every hyperparameter.
type Grid struct {
	ConvLayers     []int `yaml:"convLayers,flow"`
	Filters        []int `yaml:"filters,flow"`
	Kernels        []int `yaml:"kernels,flow"`
	PoolingWindows []int `yaml:"poolingWindows,flow"`
	Epochs         []int `yaml:"epochs,flow"`
}

// DefaultGrid is the grid of the smell detection experiments.
func DefaultGrid() Grid {
	return Grid{
		ConvLayers:     []int{1, 2},
		Filters:        []int{8, 16, 32, 64},
		Kernels:        []int{5, 7, 11},
		PoolingWindows: []int{2, 3, 4, 5},
		Epochs:         []int{50},
	}
}

func set(values []int) []int {
	o := lo.Uniq(values)
	sort.Ints(o)
	return o
}

// Normalize deduplicates and sorts every set.
func (g Grid) Normalize() Grid {
	return Grid{
		ConvLayers:     set(g.ConvLayers),
		Filters:        set(g.Filters),
		Kernels:        set(g.Kernels),
		PoolingWindows: set(g.PoolingWindows),
		Epochs:         set(g.Epochs),
	}
}

// Len returns the number of combinations.
func (g Grid) Len() int {
	g = g.Normalize()
	return len(g.ConvLayers) * len(g.Filters) * len(g.Kernels) * len(g.PoolingWindows) * len(g.Epochs)
}

// Configs returns the Cartesian product of the normalized sets, nested as
// conv layers > filters > kernels > pooling windows > epochs.
func (g Grid) Configs() []cnn.Config {
	g = g.Normalize()
	o := make([]cnn.Config, 0, g.Len())
	for _, layers := range g.ConvLayers {
		for _, filters := range g.Filters {
			for _, kernel := range g.Kernels {
				for _, window := range g.PoolingWindows {
					for _, epochs := range g.Epochs {
						o = append(o, cnn.Config{
							ConvLayers:    layers,
							Filters:       filters,
							Kernel:        kernel,
							PoolingWindow: window,
							Epochs:        epochs,
						})
					}
				}
			}
		}
	}
	return o
}
