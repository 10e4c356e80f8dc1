// Package metrics computes binary classification quality measures.
package metrics

import "math"

import "gonum.org/v1/gonum/integrate"
import "gonum.org/v1/gonum/stat"

// Report holds the measures written for one evaluated model.
type Report struct {
	AUC, Accuracy, Precision, Recall, F1, AveragePrecision float64
}

// Confusion counts predictions against labels.
type Confusion struct {
	TP, FP, TN, FN int
}

// NewConfusion counts pred against labels, which must have the same length.
func NewConfusion(labels, pred []bool) (c Confusion) {
	for i, y := range labels {
		switch {
		case y && pred[i]:
			c.TP++
		case y:
			c.FN++
		case pred[i]:
			c.FP++
		default:
			c.TN++
		}
	}
	return
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Accuracy is the share of correct predictions.
func (c Confusion) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.TP+c.TN+c.FP+c.FN)
}

// Precision is 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// Recall is 0 when there are no positive labels.
func (c Confusion) Recall() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// sorted returns copies of scores and labels ordered by ascending score.
func sorted(labels []bool, scores []float64) ([]bool, []float64) {
	y := append([]float64(nil), scores...)
	c := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, c, nil)
	return c, y
}

// AUC returns the area under the ROC curve of scores. It is NaN unless both
// classes are present.
func AUC(labels []bool, scores []float64) float64 {
	var pos int
	for _, y := range labels {
		if y {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return math.NaN()
	}
	c, y := sorted(labels, scores)
	tpr, fpr, _ := stat.ROC(nil, y, c, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// AveragePrecision returns the step-wise area under the precision-recall
// curve of scores: the sum over descending score thresholds of precision
// weighted by the recall gained. It is 0 without positive labels.
func AveragePrecision(labels []bool, scores []float64) float64 {
	c, y := sorted(labels, scores)
	var total int
	for _, v := range c {
		if v {
			total++
		}
	}
	if total == 0 {
		return 0
	}
	var ap, recall float64
	var tp, seen int
	for i := len(y) - 1; i >= 0; {
		// take every sample tied at this threshold
		j := i
		for j >= 0 && y[j] == y[i] {
			if c[j] {
				tp++
			}
			seen++
			j--
		}
		r := float64(tp) / float64(total)
		ap += (r - recall) * float64(tp) / float64(seen)
		recall = r
		i = j
	}
	return ap
}

// Evaluate computes every measure. Scores rank samples for AUC and average
// precision; pred are the thresholded class predictions.
func Evaluate(labels []bool, scores []float64, pred []bool) Report {
	c := NewConfusion(labels, pred)
	return Report{
		AUC:              AUC(labels, scores),
		Accuracy:         c.Accuracy(),
		Precision:        c.Precision(),
		Recall:           c.Recall(),
		F1:               c.F1(),
		AveragePrecision: AveragePrecision(labels, scores),
	}
}

// Scores returns 0/1 scores of class predictions, for models which only
// predict classes.
func Scores(pred []bool) []float64 {
	o := make([]float64, len(pred))
	for i, p := range pred {
		if p {
			o[i] = 1
		}
	}
	return o
}
