// Package results writes and reads grid search result files.
package results

import "math"
import "path/filepath"
import "strconv"
import "strings"
import "time"

import "github.com/pkg/errors"
import "github.com/samber/lo"

import "github.com/neurlang/smells/metrics"
import "github.com/neurlang/smells/net/cnn"

// Header is the first line of a grid search result file.
var Header = []string{
	"conv_layers", "filters", "kernel", "max_pooling_window", "epoch",
	"stopped_epoch", "auc", "accuracy", "precision", "recall", "f1", "average_precision", "time",
}

// BaselineHeader is the first line of a baseline result file.
var BaselineHeader = []string{"smell", "auc", "precision", "recall", "f1", "average_precision"}

// Sentinel fills every column from stopped_epoch to time of a skipped
// combination.
const Sentinel = -1

// TimeLayout is the timestamp layout of result file names (ddmmYYYY_HHMM).
const TimeLayout = "02012006_1504"

// FileName returns dir/<prefix><name>_<ddmmYYYY_HHMM>.csv.
func FileName(dir, prefix, name string, t time.Time) string {
	return filepath.Join(dir, prefix+name+"_"+t.Format(TimeLayout)+".csv")
}

// Prefix returns the file name prefix of a model and research question,
// such as cnn2d_rq1_.
func Prefix(model, dim string, rq int) string {
	return model + dim + "_rq" + strconv.Itoa(rq) + "_"
}

// Row is one evaluated, or skipped, combination.
type Row struct {
	Config       cnn.Config
	StoppedEpoch int
	metrics.Report
	Time    time.Duration
	Skipped bool
}

// SkippedRow marks an invalid combination.
func SkippedRow(c cnn.Config) Row {
	return Row{Config: c, Skipped: true}
}

// FormatFloat writes the shortest representation of v, or nan.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Record returns the CSV fields of r.
func (r Row) Record() []string {
	o := []string{
		strconv.Itoa(r.Config.ConvLayers),
		strconv.Itoa(r.Config.Filters),
		strconv.Itoa(r.Config.Kernel),
		strconv.Itoa(r.Config.PoolingWindow),
		strconv.Itoa(r.Config.Epochs),
	}
	if r.Skipped {
		return append(o, lo.Times(len(Header)-len(o), func(int) string { return strconv.Itoa(Sentinel) })...)
	}
	return append(o,
		strconv.Itoa(r.StoppedEpoch),
		FormatFloat(r.AUC),
		FormatFloat(r.Accuracy),
		FormatFloat(r.Precision),
		FormatFloat(r.Recall),
		FormatFloat(r.F1),
		FormatFloat(r.AveragePrecision),
		FormatFloat(r.Time.Seconds()),
	)
}

// ParseRecord parses the fields of a result line.
func ParseRecord(rec []string) (r Row, err error) {
	if len(rec) != len(Header) {
		return r, errors.Errorf("result has %d fields, want %d", len(rec), len(Header))
	}
	ints := make([]int, 6)
	for i := range ints {
		if ints[i], err = strconv.Atoi(rec[i]); err != nil {
			return r, errors.Wrapf(err, "bad %s", Header[i])
		}
	}
	r.Config = cnn.Config{
		ConvLayers:    ints[0],
		Filters:       ints[1],
		Kernel:        ints[2],
		PoolingWindow: ints[3],
		Epochs:        ints[4],
	}
	r.StoppedEpoch = ints[5]

	floats := make([]float64, len(Header)-6)
	for i := range floats {
		if floats[i], err = parseFloat(rec[6+i]); err != nil {
			return r, errors.Wrapf(err, "bad %s", Header[6+i])
		}
	}
	if r.StoppedEpoch == Sentinel && lo.EveryBy(floats, func(v float64) bool { return v == Sentinel }) {
		return Row{Config: r.Config, Skipped: true}, nil
	}
	r.Report = metrics.Report{
		AUC:              floats[0],
		Accuracy:         floats[1],
		Precision:        floats[2],
		Recall:           floats[3],
		F1:               floats[4],
		AveragePrecision: floats[5],
	}
	r.Time = time.Duration(floats[6] * float64(time.Second))
	return r, nil
}

// Best returns the evaluated row with the highest F1, the first one on ties.
func Best(rows []Row) (Row, bool) {
	evaluated := lo.Reject(rows, func(r Row, _ int) bool { return r.Skipped || math.IsNaN(r.F1) })
	if len(evaluated) == 0 {
		return Row{}, false
	}
	return lo.MaxBy(evaluated, func(a, b Row) bool { return a.F1 > b.F1 }), true
}

// FinalEpochs returns the epoch count for retraining the configuration of
// r: the epoch where early stopping ended, or every epoch.
func (r Row) FinalEpochs() int {
	if r.StoppedEpoch > 0 {
		return r.StoppedEpoch
	}
	return r.Config.Epochs
}

// BaselineRow is the evaluation of a trivial classifier.
type BaselineRow struct {
	Smell string
	metrics.Report
}

// Record returns the CSV fields of b.
func (b BaselineRow) Record() []string {
	return []string{
		b.Smell,
		FormatFloat(b.AUC),
		FormatFloat(b.Precision),
		FormatFloat(b.Recall),
		FormatFloat(b.F1),
		FormatFloat(b.AveragePrecision),
	}
}
