// Package dataset holds labeled examples for training: one row of features
// and one row of targets per example.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Set stores features as an (n, inputSize) tensor and targets as an
// (n, outputSize) tensor.
type Set struct {
	Features *tensor.Dense
	Targets  *tensor.Dense
}

// New copies paired feature and target rows into a Set. All feature rows must
// have the same length, as must all target rows.
func New(examples, targets [][]float64) (*Set, error) {
	if len(examples) == 0 {
		return nil, errors.New("no examples")
	}
	if len(examples) != len(targets) {
		return nil, errors.Errorf("%d examples but %d targets", len(examples), len(targets))
	}
	features, err := pack("example", examples)
	if err != nil {
		return nil, err
	}
	labels, err := pack("target", targets)
	if err != nil {
		return nil, err
	}
	return &Set{Features: features, Targets: labels}, nil
}

func pack(what string, rows [][]float64) (*tensor.Dense, error) {
	width := len(rows[0])
	if width == 0 {
		return nil, errors.Errorf("%s 0 is empty", what)
	}
	data := make([]float64, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return nil, errors.Errorf("%s %d has %d values, expected %d", what, i, len(row), width)
		}
		data = append(data, row...)
	}
	return tensor.New(tensor.Of(tensor.Float64), tensor.WithShape(len(rows), width), tensor.WithBacking(data)), nil
}

// Linear is the four-example set for target = 5x + 5.
func Linear() *Set {
	set, err := New(
		[][]float64{{3}, {4}, {5}, {6}},
		[][]float64{{20}, {25}, {30}, {35}},
	)
	if err != nil {
		panic(err)
	}
	return set
}

func (s *Set) Len() int {
	return s.Features.Shape()[0]
}

func (s *Set) InputSize() int {
	return s.Features.Shape()[1]
}

func (s *Set) OutputSize() int {
	return s.Targets.Shape()[1]
}

// Examples returns a copy of the feature rows.
func (s *Set) Examples() [][]float64 {
	return rows(s.Features)
}

// TargetRows returns a copy of the target rows.
func (s *Set) TargetRows() [][]float64 {
	return rows(s.Targets)
}

func rows(t *tensor.Dense) [][]float64 {
	shape := t.Shape()
	n, width := shape[0], shape[1]
	var data []float64
	switch d := t.Data().(type) {
	case []float64:
		data = d
	case float64:
		// a 1x1 tensor may come back as a scalar
		data = []float64{d}
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), data[i*width:(i+1)*width]...)
	}
	return out
}

// LoadCSV reads one example per line: inputSize feature columns followed by
// outputSize target columns. Lines starting with '#' are skipped.
func LoadCSV(r io.Reader, inputSize, outputSize int) (*Set, error) {
	if inputSize < 1 || outputSize < 1 {
		return nil, errors.Errorf("invalid sizes: %d inputs, %d outputs", inputSize, outputSize)
	}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = inputSize + outputSize
	reader.TrimLeadingSpace = true

	var examples, targets [][]float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading examples")
		}

		values := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				line, _ := reader.FieldPos(i)
				return nil, errors.Wrapf(err, "line %d, column %d", line, i+1)
			}
			values[i] = v
		}
		examples = append(examples, values[:inputSize])
		targets = append(targets, values[inputSize:])
	}
	return New(examples, targets)
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string, inputSize, outputSize int) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	set, err := LoadCSV(file, inputSize, outputSize)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return set, nil
}
