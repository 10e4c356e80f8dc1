// Package config holds the experiment configuration read from YAML.
package config

import "bytes"
import "io"
import "os"

import "github.com/pkg/errors"
import "gopkg.in/yaml.v3"

import "github.com/neurlang/smells/datasets"
import "github.com/neurlang/smells/learning"
import "github.com/neurlang/smells/trainer"

// Config describes one experiment.
type Config struct {
	Data   Data         `yaml:"data"`
	Grid   trainer.Grid `yaml:"grid"`
	Fit    Fit          `yaml:"fit"`
	Output Output       `yaml:"output"`
	Seed   int64        `yaml:"seed"`
}

// Data locates and partitions the tokenized samples.
type Data struct {
	// Root holds <smell>/<dim>/{Positive,Negative} sample trees.
	Root string `yaml:"root"`
	// EvalRoot, when set, supplies the evaluation samples (cross-language
	// runs) while Root supplies the training samples.
	EvalRoot string   `yaml:"evalRoot"`
	Dim      string   `yaml:"dim"`
	Smells   []string `yaml:"smells,flow"`

	TrainRatio  float64 `yaml:"trainRatio"`
	MaxTraining int     `yaml:"maxTraining"`
	// MaxEval caps the evaluation set; zero means no cap, or the per smell
	// cap in cross-language runs.
	MaxEval   int `yaml:"maxEval"`
	MaxLength int `yaml:"maxLength"`
	Workers   int `yaml:"workers"`
}

// Fit holds training parameters shared by every combination.
type Fit struct {
	BatchSize       int     `yaml:"batchSize"`
	LearningRate    float64 `yaml:"learningRate"`
	ValidationSplit float64 `yaml:"validationSplit"`
	Patience        int     `yaml:"patience"`
	MinDelta        float64 `yaml:"minDelta"`
	Threshold       float64 `yaml:"threshold"`
}

// Output names the result folder and resume behavior.
type Output struct {
	Dir string `yaml:"dir"`
	// Resume appends to this result file instead of creating a new one.
	Resume string `yaml:"resume"`
	// SkipIter starts the grid at this 1-based iteration.
	SkipIter int  `yaml:"skipIter"`
	Progress bool `yaml:"progress"`
}

// Default returns the configuration of the smell detection experiments.
func Default() Config {
	h := learning.NewHyperParameters(1)
	return Config{
		Data: Data{
			Root:        "tokenizer_out",
			Dim:         string(datasets.Dim2),
			Smells:      []string{string(datasets.ComplexMethod)},
			TrainRatio:  datasets.DefaultTrainRatio,
			MaxTraining: datasets.DefaultMaxTraining,
		},
		Grid: trainer.DefaultGrid(),
		Fit: Fit{
			LearningRate:    h.LearningRate,
			ValidationSplit: h.ValidationSplit,
			Patience:        h.Patience,
			MinDelta:        h.MinDelta,
			Threshold:       learning.DefaultThreshold,
		},
		Output: Output{Dir: "results", Progress: true},
		Seed:   1,
	}
}

// Load reads a YAML file over the defaults.
func Load(name string) (Config, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Config{}, errors.Wrap(err, "cannot read config")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "cannot parse config")
	}
	return c, c.Validate()
}

// Validate checks names and ranges.
func (c Config) Validate() error {
	if _, err := datasets.ParseDim(c.Data.Dim); err != nil {
		return err
	}
	if _, err := c.Smells(); err != nil {
		return err
	}
	if c.Data.TrainRatio <= 0 || c.Data.TrainRatio > 1 {
		return errors.Errorf("trainRatio %v outside (0, 1]", c.Data.TrainRatio)
	}
	if c.Grid.Len() == 0 {
		return errors.New("grid has no combination")
	}
	if c.Fit.Threshold <= 0 || c.Fit.Threshold >= 1 {
		return errors.Errorf("threshold %v outside (0, 1)", c.Fit.Threshold)
	}
	h := c.HyperParameters(false)
	return h.Validate()
}

// Smells parses the smell names.
func (c Config) Smells() ([]datasets.Smell, error) {
	if len(c.Data.Smells) == 0 {
		return nil, errors.New("no smell configured")
	}
	o := make([]datasets.Smell, len(c.Data.Smells))
	for i, s := range c.Data.Smells {
		smell, err := datasets.ParseSmell(s)
		if err != nil {
			return nil, err
		}
		o[i] = smell
	}
	return o, nil
}

// Dimension returns the parsed sample dimension.
func (c Config) Dimension() datasets.Dim {
	d, _ := datasets.ParseDim(c.Data.Dim)
	return d
}

// Cross reports whether evaluation samples come from another root.
func (c Config) Cross() bool {
	return c.Data.EvalRoot != ""
}

// ResearchQuestion numbers the experiment: 2 for cross-language runs.
func (c Config) ResearchQuestion() int {
	if c.Cross() {
		return 2
	}
	return 1
}

// MaxEval returns the evaluation cap for smell.
func (c Config) MaxEval(smell datasets.Smell) int {
	if c.Data.MaxEval == 0 && c.Cross() {
		return smell.MaxEvalSamples()
	}
	return c.Data.MaxEval
}

// HyperParameters returns the fit template; epochs come from each
// combination.
func (c Config) HyperParameters(final bool) learning.HyperParameters {
	h := learning.NewHyperParameters(1)
	h.BatchSize = c.Fit.BatchSize
	h.LearningRate = c.Fit.LearningRate
	h.ValidationSplit = c.Fit.ValidationSplit
	h.Patience = c.Fit.Patience
	h.MinDelta = c.Fit.MinDelta
	h.Final = final
	return *h
}
