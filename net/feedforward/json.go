package feedforward

import "compress/lzw"
import "encoding/json"
import "io"
import "os"

import "github.com/pkg/errors"
import "go.uber.org/multierr"

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "cannot create weights file")
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()
	return f.WriteCompressedWeights(file)
}

// WriteCompressedWeights writes model weights to a writer, as a lzw compressed
// JSON array holding one array per parameter.
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	values := make([][]float64, 0, len(f.Params()))
	for _, p := range f.Params() {
		values = append(values, p.Value)
	}
	err := json.NewEncoder(lw).Encode(values)
	return multierr.Append(err, lw.Close())
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) (err error) {
	file, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "cannot open weights file")
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()
	return f.ReadCompressedWeights(file)
}

// ReadCompressedWeights reads model weights from a reader. The network must
// have the same architecture as the one that wrote them.
func (f FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var values [][]float64
	if err := json.NewDecoder(lr).Decode(&values); err != nil {
		return errors.Wrap(err, "cannot decode weights")
	}
	params := f.Params()
	if len(values) != len(params) {
		return errors.Errorf("weights hold %d params, network has %d", len(values), len(params))
	}
	for i, p := range params {
		if len(values[i]) != len(p.Value) {
			return errors.Errorf("param %d (%s) holds %d weights, network has %d", i, p.Name, len(values[i]), len(p.Value))
		}
	}
	for i, p := range params {
		copy(p.Value, values[i])
	}
	return nil
}
