package datasets

import "github.com/montanaflynn/stats"

import "github.com/neurlang/smells/layer"

// Data is a padded dataset ready for the network.
type Data struct {
	TrainData   [][]float64
	TrainLabels []bool
	EvalData    [][]float64
	EvalLabels  []bool
	Shape       layer.Shape
}

// Positives counts the positive training and evaluation labels.
func (d Data) Positives() (train, eval int) {
	for _, y := range d.TrainLabels {
		if y {
			train++
		}
	}
	for _, y := range d.EvalLabels {
		if y {
			eval++
		}
	}
	return
}

// Pad flattens every sample into the shared Height x Width x 1 shape of the
// largest sample of either set, zero padding after the tokens.
func Pad(train, eval []Sample, dim Dim) Data {
	var shape = layer.Shape{Height: 1, Width: 1, Channels: 1}
	for _, set := range [][]Sample{train, eval} {
		for _, s := range set {
			if dim == Dim2 && s.Height() > shape.Height {
				shape.Height = s.Height()
			}
			if s.Width() > shape.Width {
				shape.Width = s.Width()
			}
		}
	}
	o := Data{Shape: shape}
	o.TrainData, o.TrainLabels = flatten(train, shape)
	o.EvalData, o.EvalLabels = flatten(eval, shape)
	return o
}

func flatten(samples []Sample, shape layer.Shape) ([][]float64, []bool) {
	data := make([][]float64, len(samples))
	labels := make([]bool, len(samples))
	for i, s := range samples {
		x := make([]float64, shape.Size())
		for y, row := range s.Tokens {
			copy(x[shape.Index(y, 0, 0):], row)
		}
		data[i] = x
		labels[i] = s.Label
	}
	return data, labels
}

// Lengths summarizes the token counts of samples.
type Lengths struct {
	Min, Max, Mean, Median float64
}

// LengthStats describes the lengths (1d) or row counts (2d) of samples.
func LengthStats(samples []Sample, dim Dim) (o Lengths, err error) {
	if len(samples) == 0 {
		return o, nil
	}
	l := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		if dim == Dim2 {
			l[i] = float64(s.Height())
		} else {
			l[i] = float64(s.Width())
		}
	}
	if o.Min, err = l.Min(); err != nil {
		return
	}
	if o.Max, err = l.Max(); err != nil {
		return
	}
	if o.Mean, err = l.Mean(); err != nil {
		return
	}
	o.Median, err = l.Median()
	return
}
