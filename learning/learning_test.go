package learning

import "context"
import "math"
import "math/rand"
import "os"
import "path/filepath"
import "testing"

import "go.uber.org/zap/zaptest"
import "go.viam.com/test"

import "github.com/neurlang/smells/layer"
import "github.com/neurlang/smells/layer/full"
import "github.com/neurlang/smells/net/feedforward"

func TestBatchSizeFor(t *testing.T) {
	for n, want := range map[int]int{0: 32, 511: 32, 512: 64, 1024: 128, 1535: 128, 1536: 256, 100000: 256} {
		test.That(t, BatchSizeFor(n), test.ShouldEqual, want)
	}
}

func TestBinaryCrossEntropy(t *testing.T) {
	test.That(t, BinaryCrossEntropy([]float64{0.5, 0.5}, []bool{true, false}), test.ShouldAlmostEqual, math.Ln2, 1e-12)
	test.That(t, BinaryCrossEntropy([]float64{1}, []bool{true}), test.ShouldAlmostEqual, 0, 1e-6)
	// clipped, not infinite
	test.That(t, BinaryCrossEntropy([]float64{0}, []bool{true}), test.ShouldAlmostEqual, -math.Log(ProbabilityEpsilon), 1e-6)

	grad := BinaryCrossEntropyGrad([][]float64{{0.25}, {0.25}}, []bool{true, false})
	test.That(t, grad[0][0], test.ShouldAlmostEqual, -2.0, 1e-9)
	test.That(t, grad[1][0], test.ShouldAlmostEqual, 2.0/3, 1e-9)
}

func TestAdamFirstStep(t *testing.T) {
	p := layer.NewParam("w", 2)
	state := layer.NewState("s", 1)
	opt := NewAdam([]*layer.Param{p, state}, 0.001)
	p.Grad[0], p.Grad[1] = 1, -4
	opt.Step()
	// the bias corrected first step moves every weight by the learning rate
	test.That(t, p.Value[0], test.ShouldAlmostEqual, -0.001, 1e-8)
	test.That(t, p.Value[1], test.ShouldAlmostEqual, 0.001, 1e-8)
	test.That(t, state.Value[0], test.ShouldEqual, 0.0)

	opt.ZeroGrad()
	test.That(t, p.Grad, test.ShouldResemble, []float64{0, 0})
}

func TestEarlyStopping(t *testing.T) {
	e := newEarlyStopping(5, 1e-4)
	losses := []float64{1, 0.9, 0.89995, 0.9, 0.95, 0.9, 0.91}
	var stopped int
	for epoch, l := range losses {
		if e.update(epoch, l) {
			stopped = epoch
			break
		}
	}
	test.That(t, stopped, test.ShouldEqual, 6)
	test.That(t, e.best, test.ShouldEqual, 0.9)
}

// separable samples: positive when the first value is positive
func separable(n int) ([][]float64, []bool) {
	rng := rand.New(rand.NewSource(3))
	x := make([][]float64, n)
	y := make([]bool, n)
	for i := range x {
		y[i] = i%2 == 0
		v := 1 + rng.Float64()
		if !y[i] {
			v = -v
		}
		x[i] = []float64{v, rng.Float64() - 0.5}
	}
	return x, y
}

func logistic(t *testing.T) *feedforward.FeedforwardNetwork {
	t.Helper()
	net := new(feedforward.FeedforwardNetwork)
	net.NewCombiner(full.MustNew(1, full.Sigmoid))
	test.That(t, net.Finalize(layer.Shape{Height: 1, Width: 2, Channels: 1}, rand.New(rand.NewSource(1))), test.ShouldBeNil)
	return net
}

func TestFitFinal(t *testing.T) {
	x, y := separable(64)
	net := logistic(t)
	h := NewHyperParameters(300)
	h.LearningRate = 0.05
	h.Final = true
	h.SetLogger(zaptest.NewLogger(t).Sugar())

	hist, err := Fit(context.Background(), net, x, y, h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hist.StoppedEpoch, test.ShouldEqual, 300)
	test.That(t, hist.Loss, test.ShouldHaveLength, 300)
	test.That(t, hist.ValLoss, test.ShouldBeEmpty)
	test.That(t, hist.Loss[299], test.ShouldBeLessThan, hist.Loss[0])

	pred := Threshold(Predict(net, x, 0), DefaultThreshold)
	test.That(t, pred, test.ShouldResemble, y)
}

func TestFitCheckpointRestoresBest(t *testing.T) {
	x, y := separable(50)
	net := logistic(t)
	h := NewHyperParameters(8)
	h.Checkpoint = filepath.Join(t.TempDir(), "best.json.lzw")
	test.That(t, os.WriteFile(h.Checkpoint, []byte("stale"), 0o644), test.ShouldBeNil)

	hist, err := Fit(context.Background(), net, x, y, h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hist.ValLoss, test.ShouldHaveLength, len(hist.Loss))
	test.That(t, hist.BestEpoch, test.ShouldBeGreaterThanOrEqualTo, 0)

	restored := logistic(t)
	layer.Uniform(rand.New(rand.NewSource(9)), restored.Params()[0].Value, 1)
	test.That(t, restored.ReadCompressedWeightsFromFile(h.Checkpoint), test.ShouldBeNil)
	test.That(t, restored.Forward(x, false), test.ShouldResemble, net.Forward(x, false))
}

func TestFitStopsEarly(t *testing.T) {
	x, y := separable(50)
	// inverted validation labels: the better the fit, the worse the validation loss
	for i := 40; i < len(y); i++ {
		y[i] = !y[i]
	}
	net := logistic(t)
	h := NewHyperParameters(100)
	h.LearningRate = 0.05
	h.Checkpoint = filepath.Join(t.TempDir(), "best.json.lzw")

	hist, err := Fit(context.Background(), net, x, y, h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hist.StoppedEpoch, test.ShouldBeGreaterThan, 0)
	test.That(t, hist.StoppedEpoch, test.ShouldBeLessThan, 99)
	test.That(t, hist.ValLoss, test.ShouldHaveLength, hist.StoppedEpoch+1)
	test.That(t, hist.BestEpoch, test.ShouldBeBetweenOrEqual, 0, hist.StoppedEpoch-1)
	test.That(t, hist.ValLoss[hist.StoppedEpoch], test.ShouldBeGreaterThan, hist.ValLoss[hist.BestEpoch])

	// the net holds the best epoch weights, not the last ones
	val := BinaryCrossEntropy(Predict(net, x[40:], 0), y[40:])
	test.That(t, val, test.ShouldAlmostEqual, hist.ValLoss[hist.BestEpoch], 1e-12)
}

func TestFitValidationTail(t *testing.T) {
	x, y := separable(10)
	h := NewHyperParameters(2)
	hist, err := Fit(context.Background(), logistic(t), x, y, h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hist.ValLoss, test.ShouldHaveLength, 2)
	test.That(t, hist.StoppedEpoch, test.ShouldEqual, 0)
	test.That(t, hist.BestEpoch, test.ShouldEqual, -1)

	_, err = Fit(context.Background(), logistic(t), x[:1], y[:1], h)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFitCancelled(t *testing.T) {
	x, y := separable(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fit(ctx, logistic(t), x, y, NewHyperParameters(2))
	test.That(t, err, test.ShouldEqual, context.Canceled)
}
