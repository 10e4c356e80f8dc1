package datasets

import "bufio"
import "os"
import "path/filepath"
import "sort"
import "strconv"
import "strings"

import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"

import "github.com/neurlang/smells/parallel"

const (
	positiveDir = "positive"
	negativeDir = "negative"
)

// Sample is one tokenized code fragment. 1d samples hold a single row.
type Sample struct {
	Tokens [][]float64
	Label  bool
	Name   string
}

// Height returns the number of rows.
func (s Sample) Height() int {
	return len(s.Tokens)
}

// Width returns the length of the longest row.
func (s Sample) Width() (o int) {
	for _, row := range s.Tokens {
		if len(row) > o {
			o = len(row)
		}
	}
	return
}

// Options tune loading.
type Options struct {
	// Workers reading files at once, the logical core count when zero.
	Workers int
	// MaxLength drops 1d samples with more tokens, or 2d samples with more
	// rows, when positive.
	MaxLength int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	if cpuid.CPU.LogicalCores > 0 {
		return cpuid.CPU.LogicalCores
	}
	return 1
}

// Path returns the sample directory of smell and dim under root.
func Path(root string, smell Smell, dim Dim) string {
	return filepath.Join(root, string(smell), string(dim))
}

// classDirs finds the positive and negative directories of dir, matching
// names case-insensitively.
func classDirs(dir string) (pos, neg string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", errors.Wrap(err, "cannot list dataset")
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		switch strings.ToLower(e.Name()) {
		case positiveDir:
			pos = filepath.Join(dir, e.Name())
		case negativeDir:
			neg = filepath.Join(dir, e.Name())
		}
	}
	if pos == "" || neg == "" {
		return "", "", errors.Errorf("dataset %s needs Positive and Negative directories", dir)
	}
	return pos, neg, nil
}

func files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list samples")
	}
	var o []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			o = append(o, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(o)
	return o, nil
}

// LoadDir reads the positive and negative samples under dir, in file name
// order, positives first. Files without tokens are skipped.
func LoadDir(dir string, dim Dim, opts Options) ([]Sample, error) {
	pos, neg, err := classDirs(dir)
	if err != nil {
		return nil, err
	}
	posFiles, err := files(pos)
	if err != nil {
		return nil, err
	}
	negFiles, err := files(neg)
	if err != nil {
		return nil, err
	}
	names := append(posFiles, negFiles...)

	loaded := make([]Sample, len(names))
	err = parallel.ForEach(len(names), opts.workers(), func(i int) error {
		tokens, err := ReadSample(names[i], dim)
		if err != nil {
			return err
		}
		loaded[i] = Sample{Tokens: tokens, Label: i < len(posFiles), Name: names[i]}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o := loaded[:0]
	for _, s := range loaded {
		if s.Width() == 0 {
			continue
		}
		if opts.MaxLength > 0 && ((dim == Dim1 && s.Width() > opts.MaxLength) ||
			(dim == Dim2 && s.Height() > opts.MaxLength)) {
			continue
		}
		o = append(o, s)
	}
	return o, nil
}

// ReadSample parses a file of whitespace separated integer tokens. A 1d
// sample concatenates every token; a 2d sample has one row per non-empty line.
func ReadSample(name string, dim Dim) (rows [][]float64, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open sample")
	}
	defer f.Close()

	var flat []float64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d: bad token", name, line)
			}
			row[i] = float64(v)
		}
		if dim == Dim1 {
			flat = append(flat, row...)
		} else {
			rows = append(rows, row)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", name)
	}
	if dim == Dim1 && len(flat) > 0 {
		rows = [][]float64{flat}
	}
	return rows, nil
}
