package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LossFunction defines the interface for computing loss and the error signal
// training pushes back through the network.
type LossFunction interface {
	// Compute returns the loss of one prediction against its target.
	Compute(prediction []float64, target []float64) float64
	// Gradient returns the desired direction for each output, target - prediction.
	Gradient(prediction []float64, target []float64) []float64
}

// SquaredError is Σ (target - prediction)².
type SquaredError struct{}

func (SquaredError) Compute(prediction []float64, target []float64) float64 {
	diff := SquaredError{}.Gradient(prediction, target)
	return floats.Dot(diff, diff)
}

func (SquaredError) Gradient(prediction []float64, target []float64) []float64 {
	diff := make([]float64, len(target))
	floats.SubTo(diff, target, prediction)
	return diff
}

// DatasetLoss is the mean per-example loss of nn over the examples.
func DatasetLoss(nn *Network, loss LossFunction, examples, targets [][]float64) (float64, error) {
	if err := checkExamples(nn, examples, targets); err != nil {
		return 0, err
	}
	losses := make([]float64, len(examples))
	for i, example := range examples {
		prediction, err := nn.Predict(example)
		if err != nil {
			return 0, errors.Wrapf(err, "example %d", i)
		}
		losses[i] = loss.Compute(prediction, targets[i])
	}
	return stat.Mean(losses, nil), nil
}

// MeanSquaredError is DatasetLoss with SquaredError.
func MeanSquaredError(nn *Network, examples, targets [][]float64) (float64, error) {
	return DatasetLoss(nn, SquaredError{}, examples, targets)
}

func checkExamples(nn *Network, examples, targets [][]float64) error {
	if len(examples) == 0 {
		return shapeError("examples", 1, 0)
	}
	if len(examples) != len(targets) {
		return shapeError("targets", len(examples), len(targets))
	}
	for i, target := range targets {
		if len(target) != nn.OutputSize() {
			return errors.Wrapf(shapeError("target", nn.OutputSize(), len(target)), "example %d", i)
		}
	}
	return nil
}
