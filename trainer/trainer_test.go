package trainer

import "bytes"
import "context"
import "math/rand"
import "os"
import "path/filepath"
import "testing"
import "time"

import "github.com/pkg/errors"
import "go.viam.com/test"

import "github.com/neurlang/smells/datasets"
import "github.com/neurlang/smells/layer"
import "github.com/neurlang/smells/learning"
import "github.com/neurlang/smells/logging"
import "github.com/neurlang/smells/metrics"
import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"

type memoryWriter struct {
	rows []results.Row
	err  error
}

func (m *memoryWriter) WriteRow(r results.Row) error {
	m.rows = append(m.rows, r)
	return m.err
}

func TestGrid(t *testing.T) {
	g := DefaultGrid()
	test.That(t, g.Len(), test.ShouldEqual, 96)
	configs := g.Configs()
	test.That(t, configs, test.ShouldHaveLength, 96)
	test.That(t, configs[0], test.ShouldResemble, cnn.Config{ConvLayers: 1, Filters: 8, Kernel: 5, PoolingWindow: 2, Epochs: 50})
	test.That(t, configs[1], test.ShouldResemble, cnn.Config{ConvLayers: 1, Filters: 8, Kernel: 5, PoolingWindow: 3, Epochs: 50})
	test.That(t, configs[4], test.ShouldResemble, cnn.Config{ConvLayers: 1, Filters: 8, Kernel: 7, PoolingWindow: 2, Epochs: 50})
	test.That(t, configs[95], test.ShouldResemble, cnn.Config{ConvLayers: 2, Filters: 64, Kernel: 11, PoolingWindow: 5, Epochs: 50})

	g = Grid{ConvLayers: []int{2, 1, 2}, Filters: []int{8}, Kernels: []int{5}, PoolingWindows: []int{3, 2}, Epochs: []int{50, 50}}
	test.That(t, g.Normalize(), test.ShouldResemble, Grid{
		ConvLayers: []int{1, 2}, Filters: []int{8}, Kernels: []int{5}, PoolingWindows: []int{2, 3}, Epochs: []int{50},
	})
	test.That(t, g.Len(), test.ShouldEqual, 4)
	test.That(t, Grid{}.Configs(), test.ShouldBeEmpty)
}

func fakeEvaluate(visits map[cnn.Config]int) EvaluateFunc {
	return func(ctx context.Context, c cnn.Config) (results.Row, error) {
		visits[c]++
		if c.Kernel > 5 {
			return results.Row{}, errors.Wrap(layer.Invalid("kernel %d", c.Kernel), "cannot build")
		}
		return results.Row{StoppedEpoch: 7, Report: metrics.Report{F1: float64(c.Filters) / 100}}, nil
	}
}

func TestRunnerVisitsEveryCombinationOnce(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	visits := map[cnn.Config]int{}
	w := new(memoryWriter)
	var progress bytes.Buffer
	configs := DefaultGrid().Configs()
	r := Runner{Configs: configs, Evaluate: fakeEvaluate(visits), Writer: w, Logger: logger, Progress: &progress}
	test.That(t, r.Run(context.Background()), test.ShouldBeNil)

	test.That(t, visits, test.ShouldHaveLength, 96)
	for _, n := range visits {
		test.That(t, n, test.ShouldEqual, 1)
	}
	test.That(t, w.rows, test.ShouldHaveLength, 96)
	for i, row := range w.rows {
		test.That(t, row.Config, test.ShouldResemble, configs[i])
		test.That(t, row.Skipped, test.ShouldEqual, configs[i].Kernel > 5)
		if !row.Skipped {
			test.That(t, row.StoppedEpoch, test.ShouldEqual, 7)
		}
	}
	test.That(t, logs.FilterMessage("** Iteration 96 of 96 **").Len(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("skipping combination").Len(), test.ShouldEqual, 64)
	fields := logs.FilterMessage("skipping combination").All()[0].ContextMap()
	test.That(t, fields["reason"], test.ShouldContainSubstring, "kernel 7")
	test.That(t, fields, test.ShouldNotContainKey, "errorVerbose")
}

func TestRunnerStopsOnFatalError(t *testing.T) {
	fatal := errors.New("disk on fire")
	w := new(memoryWriter)
	r := Runner{
		Configs: DefaultGrid().Configs(),
		Evaluate: func(ctx context.Context, c cnn.Config) (results.Row, error) {
			if c.Filters == 16 {
				return results.Row{}, fatal
			}
			return results.Row{}, nil
		},
		Writer: w,
		Logger: logging.NewTestLogger(t),
	}
	err := r.Run(context.Background())
	test.That(t, errors.Is(err, fatal), test.ShouldBeTrue)
	test.That(t, w.rows, test.ShouldHaveLength, 12)

	w = &memoryWriter{err: fatal}
	r.Writer = w
	test.That(t, errors.Is(r.Run(context.Background()), fatal), test.ShouldBeTrue)
	test.That(t, w.rows, test.ShouldHaveLength, 1)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := new(memoryWriter)
	r := Runner{
		Configs: DefaultGrid().Configs(),
		Evaluate: func(context.Context, cnn.Config) (results.Row, error) {
			cancel()
			return results.Row{}, nil
		},
		Writer: w,
		Logger: logging.NewTestLogger(t),
	}
	test.That(t, r.Run(ctx), test.ShouldEqual, context.Canceled)
	test.That(t, w.rows, test.ShouldHaveLength, 1)
}

func TestRunnerTimesEvaluation(t *testing.T) {
	var tick time.Time
	w := new(memoryWriter)
	r := Runner{
		Configs:  []cnn.Config{{ConvLayers: 1, Filters: 8, Kernel: 5, PoolingWindow: 2, Epochs: 1}},
		Evaluate: fakeEvaluate(map[cnn.Config]int{}),
		Writer:   w,
		Logger:   logging.NewTestLogger(t),
		now: func() time.Time {
			tick = tick.Add(1500 * time.Millisecond)
			return tick
		},
	}
	test.That(t, r.Run(context.Background()), test.ShouldBeNil)
	test.That(t, w.rows[0].Time, test.ShouldEqual, 1500*time.Millisecond)
}

func TestResume(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "cnn2d_rq1_ComplexMethod_01012021_1000.csv")
	configs := DefaultGrid().Configs()

	file, err := results.Create(name, results.Header)
	test.That(t, err, test.ShouldBeNil)
	for _, c := range configs[:10] {
		test.That(t, file.WriteRow(results.SkippedRow(c)), test.ShouldBeNil)
	}
	test.That(t, file.Close(), test.ShouldBeNil)

	done, err := Resume(name)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, done, test.ShouldHaveLength, 10)

	latest, err := Latest(dir, "cnn2d_rq1_", "ComplexMethod")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, latest, test.ShouldEqual, name)
	latest, err = Latest(dir, "cnn2d_rq1_", "FeatureEnvy")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, latest, test.ShouldBeEmpty)

	visits := map[cnn.Config]int{}
	w := new(memoryWriter)
	r := Runner{Configs: configs, Evaluate: fakeEvaluate(visits), Writer: w, Logger: logging.NewTestLogger(t), Done: done}
	test.That(t, r.Run(context.Background()), test.ShouldBeNil)
	test.That(t, w.rows, test.ShouldHaveLength, 86)
	test.That(t, w.rows[0].Config, test.ShouldResemble, configs[10])

	// skip_iter is a lower bound on top of the evaluated set
	w = new(memoryWriter)
	r = Runner{Configs: configs, Evaluate: fakeEvaluate(visits), Writer: w, Logger: logging.NewTestLogger(t), Done: done, SkipIter: 50}
	test.That(t, r.Run(context.Background()), test.ShouldBeNil)
	test.That(t, w.rows, test.ShouldHaveLength, 47)
	test.That(t, w.rows[0].Config, test.ShouldResemble, configs[49])
}

func TestResumeAfterSkipIter(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cnn2d_rq1_ComplexMethod_01012021_1000.csv")
	configs := DefaultGrid().Configs()

	// an interrupted run that started at iteration 10
	file, err := results.Create(name, results.Header)
	test.That(t, err, test.ShouldBeNil)
	r := Runner{Configs: configs[:14], Evaluate: fakeEvaluate(map[cnn.Config]int{}), Writer: file, Logger: logging.NewTestLogger(t), SkipIter: 10}
	test.That(t, r.Run(context.Background()), test.ShouldBeNil)
	test.That(t, file.Close(), test.ShouldBeNil)

	for _, skip := range []int{0, 10} {
		done, err := Resume(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, done, test.ShouldHaveLength, 5)

		visits := map[cnn.Config]int{}
		w := new(memoryWriter)
		r = Runner{Configs: configs, Evaluate: fakeEvaluate(visits), Writer: w, Logger: logging.NewTestLogger(t), Done: done, SkipIter: skip}
		test.That(t, r.Run(context.Background()), test.ShouldBeNil)
		for c := range done {
			test.That(t, visits[c], test.ShouldEqual, 0)
		}
		if skip == 0 {
			test.That(t, w.rows, test.ShouldHaveLength, 91)
			test.That(t, w.rows[0].Config, test.ShouldResemble, configs[0])
		} else {
			test.That(t, w.rows, test.ShouldHaveLength, 82)
			test.That(t, w.rows[0].Config, test.ShouldResemble, configs[14])
		}
	}

	rows, err := results.ReadRows(name)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldHaveLength, 5)
	test.That(t, rows[0].Config, test.ShouldResemble, configs[9])
}

func TestBestConfigAndFinal(t *testing.T) {
	name := filepath.Join(t.TempDir(), "grid.csv")
	file, err := results.Create(name, results.Header)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, file.WriteRow(results.Row{Config: cnn.Config{ConvLayers: 1, Filters: 8, Kernel: 5, PoolingWindow: 2, Epochs: 50}, StoppedEpoch: 12, Report: metrics.Report{F1: 0.8}}), test.ShouldBeNil)
	test.That(t, file.WriteRow(results.Row{Config: cnn.Config{ConvLayers: 2, Filters: 8, Kernel: 5, PoolingWindow: 2, Epochs: 50}, Report: metrics.Report{F1: 0.5}}), test.ShouldBeNil)
	test.That(t, file.Close(), test.ShouldBeNil)

	c, best, err := BestConfig(name)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldResemble, cnn.Config{ConvLayers: 1, Filters: 8, Kernel: 5, PoolingWindow: 2, Epochs: 12})
	test.That(t, best.F1, test.ShouldEqual, 0.8)
	test.That(t, FinalName("ComplexMethod"), test.ShouldEqual, "ComplexMethodfinal")

	w := new(memoryWriter)
	r := Runner{Configs: DefaultGrid().Configs(), Evaluate: fakeEvaluate(map[cnn.Config]int{}), Writer: w, Logger: logging.NewTestLogger(t), Done: map[cnn.Config]bool{c: true}}
	test.That(t, RunFinal(context.Background(), c, r), test.ShouldBeNil)
	test.That(t, w.rows, test.ShouldHaveLength, 1)
	test.That(t, w.rows[0].Config, test.ShouldResemble, c)

	_, _, err = BestConfig(filepath.Join(t.TempDir(), "missing.csv"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBaselines(t *testing.T) {
	data := datasets.Data{
		TrainLabels: []bool{true, true, false, false},
		EvalLabels:  []bool{true, false, false, false},
	}
	most, err := Baseline(MostFrequent, "FeatureEnvy", data, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, most.Recall, test.ShouldEqual, 0.0)
	test.That(t, most.AUC, test.ShouldEqual, 0.5)

	least, err := Baseline(LeastFrequent, "FeatureEnvy", data, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, least.Recall, test.ShouldEqual, 0.0)
	test.That(t, least.Precision, test.ShouldEqual, 0.0)
	test.That(t, least.Accuracy, test.ShouldEqual, 0.75)
	test.That(t, least.Smell, test.ShouldEqual, "FeatureEnvy")

	pred, err := LeastFrequent.Predict([]bool{true, true, false, false}, 4, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pred, test.ShouldResemble, []bool{false, false, false, false})
	pred, err = LeastFrequent.Predict([]bool{true, false, false}, 2, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pred, test.ShouldResemble, []bool{true, true})

	pred, err = Random.Predict(nil, 1000, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	var pos int
	for _, p := range pred {
		if p {
			pos++
		}
	}
	test.That(t, pos, test.ShouldBeBetween, 400, 600)

	s, err := ParseStrategy("random")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.FileName(), test.ShouldEqual, "random_classifier")
	test.That(t, MostFrequent.FileName(), test.ShouldEqual, "dummy_classifier_most-frequent")
	_, err = ParseStrategy("stratified")
	test.That(t, err, test.ShouldNotBeNil)
}

// tokenData builds 1d samples where positives carry large tokens.
func tokenData(n, width int, seed int64) datasets.Data {
	rng := rand.New(rand.NewSource(seed))
	var all []datasets.Sample
	for i := 0; i < n; i++ {
		row := make([]float64, width)
		for j := range row {
			row[j] = float64(rng.Intn(3))
			if i%2 == 0 {
				row[j] += 3
			}
		}
		all = append(all, datasets.Sample{Tokens: [][]float64{row}, Label: i%2 == 0})
	}
	train, eval, err := datasets.Partition(datasets.NewSplit(all), datasets.DefaultTrainRatio, 0, 0, seed)
	if err != nil {
		panic(err)
	}
	return datasets.Pad(train, eval, datasets.Dim1)
}

func TestEvaluateFunc(t *testing.T) {
	data := tokenData(80, 24, 1)
	dir := t.TempDir()
	evaluate := NewEvaluateFunc(data, EvaluateOptions{
		Seed:          1,
		Fit:           *learning.NewHyperParameters(1),
		CheckpointDir: dir,
	}, logging.NewTestLogger(t))

	c := cnn.Config{ConvLayers: 1, Filters: 4, Kernel: 5, PoolingWindow: 2, Epochs: 3}
	row, err := evaluate(context.Background(), c)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, row.Config, test.ShouldResemble, c)
	test.That(t, row.StoppedEpoch, test.ShouldEqual, 0)
	test.That(t, row.F1, test.ShouldBeBetweenOrEqual, 0.0, 1.0)
	test.That(t, row.Accuracy, test.ShouldBeBetweenOrEqual, 0.0, 1.0)

	again, err := evaluate(context.Background(), c)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again.Report, test.ShouldResemble, row.Report)

	entries, err := os.ReadDir(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, entries, test.ShouldBeEmpty)

	_, err = evaluate(context.Background(), cnn.Config{ConvLayers: 2, Filters: 4, Kernel: 11, PoolingWindow: 5, Epochs: 3})
	test.That(t, errors.Is(err, layer.ErrInvalidShape), test.ShouldBeTrue)
}

func TestEvaluateFuncFinal(t *testing.T) {
	data := tokenData(40, 12, 2)
	h := learning.NewHyperParameters(1)
	h.Final = true
	evaluate := NewEvaluateFunc(data, EvaluateOptions{Seed: 1, Fit: *h}, logging.NewTestLogger(t))
	row, err := evaluate(context.Background(), cnn.Config{ConvLayers: 1, Filters: 2, Kernel: 3, PoolingWindow: 2, Epochs: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, row.StoppedEpoch, test.ShouldEqual, 2)
}
