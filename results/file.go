package results

import "encoding/csv"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"
import "github.com/samber/lo"
import "go.uber.org/multierr"

import "github.com/neurlang/smells/net/cnn"

// Writer appends records to a result file.
type Writer struct {
	name string
	file *os.File
	csv  *csv.Writer
}

// Create opens name for appending, creating it and its directory when
// missing. The header is written only into an empty file.
func Create(name string, header []string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, errors.Wrap(err, "cannot create result folder")
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open result file")
	}
	info, err := f.Stat()
	if err != nil {
		return nil, multierr.Append(errors.Wrap(err, "cannot stat result file"), f.Close())
	}
	w := &Writer{name: name, file: f, csv: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return nil, multierr.Append(err, f.Close())
		}
	}
	return w, nil
}

// Name returns the file name.
func (w *Writer) Name() string {
	return w.name
}

// Write appends one record and flushes it to the file.
func (w *Writer) Write(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return errors.Wrap(err, "cannot write result")
	}
	w.csv.Flush()
	return errors.Wrap(w.csv.Error(), "cannot flush result")
}

// WriteRow appends a grid search row.
func (w *Writer) WriteRow(r Row) error {
	return w.Write(r.Record())
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()
	return multierr.Append(w.csv.Error(), w.file.Close())
}

// ReadRows parses every row of a grid search result file.
func ReadRows(name string) ([]Row, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open result file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads grid search rows after the header.
func Parse(r io.Reader) ([]Row, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read results")
	}
	var o []Row
	for i, rec := range records {
		if i == 0 {
			continue
		}
		row, err := ParseRecord(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		o = append(o, row)
	}
	return o, nil
}

// Evaluated returns the combinations a result file already holds a row for,
// skipped ones included. A missing file holds none.
func Evaluated(name string) (map[cnn.Config]bool, error) {
	rows, err := ReadRows(name)
	if errors.Is(err, os.ErrNotExist) {
		return map[cnn.Config]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rows, func(r Row) (cnn.Config, bool) { return r.Config, true }), nil
}
