// Package datasets loads tokenized code smell samples and partitions them
// into training and evaluation sets.
package datasets

import "strings"

import "github.com/pkg/errors"

// Smell names a detected code smell; it is also the dataset directory name.
type Smell string

const (
	ComplexMethod           Smell = "ComplexMethod"
	ComplexConditional      Smell = "ComplexConditional"
	FeatureEnvy             Smell = "FeatureEnvy"
	MultifacetedAbstraction Smell = "MultifacetedAbstraction"
)

// Smells lists every known smell.
var Smells = []Smell{ComplexConditional, ComplexMethod, MultifacetedAbstraction, FeatureEnvy}

// ParseSmell returns the known smell named s, ignoring case.
func ParseSmell(s string) (Smell, error) {
	for _, smell := range Smells {
		if strings.EqualFold(string(smell), s) {
			return smell, nil
		}
	}
	return "", errors.Errorf("unknown smell %q", s)
}

// MethodLevel reports whether samples of the smell are methods rather than
// classes.
func (s Smell) MethodLevel() bool {
	return s == ComplexMethod || s == ComplexConditional
}

// MaxEvalSamples caps the evaluation set of cross-language runs.
func (s Smell) MaxEvalSamples() int {
	if s.MethodLevel() {
		return 150000
	}
	return 50000
}

// Dim is the dimensionality of the tokenized samples.
type Dim string

const (
	// Dim1 samples are a single token sequence.
	Dim1 Dim = "1d"
	// Dim2 samples are a token matrix with one row per source line.
	Dim2 Dim = "2d"
)

// ParseDim parses "1d" or "2d".
func ParseDim(s string) (Dim, error) {
	switch d := Dim(strings.ToLower(s)); d {
	case Dim1, Dim2:
		return d, nil
	}
	return "", errors.Errorf("unknown dimension %q, want 1d or 2d", s)
}
