package metrics

import "math"
import "testing"

import "go.viam.com/test"

func TestConfusion(t *testing.T) {
	labels := []bool{true, true, true, false, false, false, false}
	pred := []bool{true, true, false, true, false, false, false}
	c := NewConfusion(labels, pred)
	test.That(t, c, test.ShouldResemble, Confusion{TP: 2, FP: 1, TN: 3, FN: 1})
	test.That(t, c.Accuracy(), test.ShouldAlmostEqual, 5.0/7, 1e-12)
	test.That(t, c.Precision(), test.ShouldAlmostEqual, 2.0/3, 1e-12)
	test.That(t, c.Recall(), test.ShouldAlmostEqual, 2.0/3, 1e-12)
	test.That(t, c.F1(), test.ShouldAlmostEqual, 2.0/3, 1e-12)
}

func TestZeroDivision(t *testing.T) {
	c := NewConfusion([]bool{true, false}, []bool{false, false})
	test.That(t, c.Precision(), test.ShouldEqual, 0.0)
	test.That(t, c.Recall(), test.ShouldEqual, 0.0)
	test.That(t, c.F1(), test.ShouldEqual, 0.0)
	test.That(t, NewConfusion(nil, nil).Accuracy(), test.ShouldEqual, 0.0)
}

func TestAUC(t *testing.T) {
	labels := []bool{false, false, true, true}
	test.That(t, AUC(labels, []float64{0.1, 0.4, 0.35, 0.8}), test.ShouldAlmostEqual, 0.75, 1e-12)
	test.That(t, AUC(labels, []float64{0.1, 0.2, 0.8, 0.9}), test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, AUC(labels, []float64{0.9, 0.8, 0.2, 0.1}), test.ShouldAlmostEqual, 0.0, 1e-12)
	// ties count half
	test.That(t, AUC(labels, []float64{0.5, 0.5, 0.5, 0.5}), test.ShouldAlmostEqual, 0.5, 1e-12)
	test.That(t, math.IsNaN(AUC([]bool{true, true}, []float64{0.1, 0.2})), test.ShouldBeTrue)
}

func TestAveragePrecision(t *testing.T) {
	labels := []bool{false, false, true, true}
	test.That(t, AveragePrecision(labels, []float64{0.1, 0.4, 0.35, 0.8}), test.ShouldAlmostEqual, 0.8333333333333333, 1e-12)
	test.That(t, AveragePrecision(labels, []float64{0.1, 0.2, 0.8, 0.9}), test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, AveragePrecision(labels, []float64{0, 0, 0, 0}), test.ShouldAlmostEqual, 0.5, 1e-12)
	test.That(t, AveragePrecision([]bool{false, false}, []float64{0.1, 0.2}), test.ShouldEqual, 0.0)
}

func TestEvaluate(t *testing.T) {
	labels := []bool{false, false, true, true}
	scores := []float64{0.1, 0.4, 0.35, 0.8}
	pred := []bool{false, false, false, true}
	r := Evaluate(labels, scores, pred)
	test.That(t, r.AUC, test.ShouldAlmostEqual, 0.75, 1e-12)
	test.That(t, r.Accuracy, test.ShouldAlmostEqual, 0.75, 1e-12)
	test.That(t, r.Precision, test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, r.Recall, test.ShouldAlmostEqual, 0.5, 1e-12)
	test.That(t, r.F1, test.ShouldAlmostEqual, 2.0/3, 1e-12)
	test.That(t, r.AveragePrecision, test.ShouldAlmostEqual, 0.8333333333333333, 1e-12)
	test.That(t, Scores(pred), test.ShouldResemble, []float64{0, 0, 0, 1})
}
