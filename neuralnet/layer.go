package neuralnet

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Layer is one dense affine step, optionally rectified.
//
// Weights are laid out [input node, output node]; the last row holds the
// bias of every output node. A Layer is never modified after construction:
// every update returns a new Layer with its own weight matrix.
type Layer struct {
	weights    *mat.Dense
	activation ActivationFunction
}

// NewLayer builds a layer from a copy of weights, whose last row is the bias.
func NewLayer(weights mat.Matrix, useActivation bool) (*Layer, error) {
	rows, cols := weights.Dims()
	if rows < 1 {
		return nil, shapeError("new layer rows", 1, rows)
	}
	if cols < 1 {
		return nil, shapeError("new layer columns", 1, cols)
	}
	return &Layer{
		weights:    mat.DenseCopyOf(weights),
		activation: activationFor(useActivation),
	}, nil
}

// RandomLayer draws every weight, bias row included, independently and
// uniformly from weightRange.
func RandomLayer(src rand.Source, inputCount, outputCount int, weightRange Range, useActivation bool) (*Layer, error) {
	if inputCount < 0 {
		return nil, shapeError("random layer inputs", 0, inputCount)
	}
	if outputCount < 1 {
		return nil, shapeError("random layer outputs", 1, outputCount)
	}

	lo, hi := weightRange.bounds()
	dist := uniform(src, lo, hi)

	data := make([]float64, (inputCount+1)*outputCount)
	for i := range data {
		data[i] = dist.Rand()
	}
	return &Layer{
		weights:    mat.NewDense(inputCount+1, outputCount, data),
		activation: activationFor(useActivation),
	}, nil
}

// InputSize is the number of input nodes, excluding the bias.
func (l *Layer) InputSize() int {
	rows, _ := l.weights.Dims()
	return rows - 1
}

func (l *Layer) OutputSize() int {
	_, cols := l.weights.Dims()
	return cols
}

// Activated reports whether the layer rectifies its output.
func (l *Layer) Activated() bool {
	_, ok := l.activation.(ReLU)
	return ok
}

func (l *Layer) Activation() ActivationFunction {
	return l.activation
}

// Weights returns a copy of the weight matrix, bias row last.
func (l *Layer) Weights() *mat.Dense {
	return mat.DenseCopyOf(l.weights)
}

// Weight returns the weight of the edge from input node i to output node j.
// i == InputSize() addresses the bias.
func (l *Layer) Weight(i, j int) float64 {
	return l.weights.At(i, j)
}

// Bias returns the bias of every output node.
func (l *Layer) Bias() []float64 {
	return mat.Row(nil, l.InputSize(), l.weights)
}

// ForwardPropagate computes bias[j] + Σ_i weights[i,j]*input[i] for every
// output node, rectified when the layer is activated.
func (l *Layer) ForwardPropagate(input []float64) ([]float64, error) {
	n, m := l.InputSize(), l.OutputSize()
	if len(input) != n {
		return nil, shapeError("forward propagate", n, len(input))
	}

	// 1 * bias
	result := l.Bias()
	if n > 0 {
		var sum mat.VecDense
		sum.MulVec(l.weights.Slice(0, n, 0, m).T(), mat.NewVecDense(n, input))
		for j := range result {
			result[j] += sum.AtVec(j)
		}
	}

	for j := range result {
		result[j] = l.activation.Activate(result[j])
	}
	return result, nil
}

// GetDesiredNudges shares each output node's error among its incoming edges
// (bias included) in proportion to the edge's part of the summed weight:
//
//	nudge[i,j] = (weights[i,j] / Σ_k weights[k,j]) * error[j]
//
// error is the desired direction, target - prediction. This is a heuristic,
// not a loss gradient, and ignores the activation entirely.
//
// Output nodes whose incoming weights sum to zero get a zero nudge column; the
// matrix is still returned, together with a *DegenerateWeightError naming
// those nodes.
func (l *Layer) GetDesiredNudges(errs []float64) (*mat.Dense, error) {
	rows, cols := l.weights.Dims()
	if len(errs) != cols {
		return nil, shapeError("desired nudges", cols, len(errs))
	}

	nudges := mat.NewDense(rows, cols, nil)
	var degenerate []int
	for j := 0; j < cols; j++ {
		column := mat.Col(nil, j, l.weights)
		total := floats.Sum(column)
		if total == 0 {
			degenerate = append(degenerate, j)
			continue
		}
		for i, w := range column {
			nudges.Set(i, j, (w/total)*errs[j])
		}
	}

	if len(degenerate) > 0 {
		return nudges, &DegenerateWeightError{Columns: degenerate}
	}
	return nudges, nil
}

// GetInputNodeErrors sums a nudge matrix across the output dimension, giving
// one error per input node. The bias row is included only when includeBias
// is set.
func (l *Layer) GetInputNodeErrors(edgeDeltas mat.Matrix, includeBias bool) ([]float64, error) {
	rows, cols := l.weights.Dims()
	if r, c := edgeDeltas.Dims(); r != rows {
		return nil, shapeError("input node errors rows", rows, r)
	} else if c != cols {
		return nil, shapeError("input node errors columns", cols, c)
	}

	n := l.InputSize()
	if includeBias {
		n++
	}
	nodeErrors := make([]float64, n)
	row := make([]float64, cols)
	for i := range nodeErrors {
		nodeErrors[i] = floats.Sum(mat.Row(row, i, edgeDeltas))
	}
	return nodeErrors, nil
}

// NudgedLayer returns a layer with weights + nudges*learningRate. Nothing is
// clamped.
func NudgedLayer(layer *Layer, nudges mat.Matrix, learningRate float64) (*Layer, error) {
	rows, cols := layer.weights.Dims()
	if r, c := nudges.Dims(); r != rows {
		return nil, shapeError("nudged layer rows", rows, r)
	} else if c != cols {
		return nil, shapeError("nudged layer columns", cols, c)
	}

	var weights mat.Dense
	weights.Scale(learningRate, nudges)
	weights.Add(&weights, layer.weights)
	return &Layer{weights: &weights, activation: layer.activation}, nil
}

// SimilarLayer returns a copy of layer with every weight moved by an
// independent uniform draw from [-maxChangeAmount, +maxChangeAmount].
func SimilarLayer(src rand.Source, layer *Layer, maxChangeAmount float64) *Layer {
	bound := math.Abs(maxChangeAmount)
	dist := uniform(src, -bound, bound)

	weights := mat.DenseCopyOf(layer.weights)
	weights.Apply(func(_, _ int, w float64) float64 {
		return w + dist.Rand()
	}, weights)
	return &Layer{weights: weights, activation: layer.activation}
}

// ResampledLayer returns a copy of layer in which each weight, with
// probability changeRate, is replaced by a fresh draw from weightRange.
func ResampledLayer(src rand.Source, layer *Layer, weightRange Range, changeRate float64) *Layer {
	lo, hi := weightRange.bounds()
	dist := uniform(src, lo, hi)
	coin := uniform(src, 0, 1)

	weights := mat.DenseCopyOf(layer.weights)
	weights.Apply(func(_, _ int, w float64) float64 {
		if coin.Rand() < changeRate {
			return dist.Rand()
		}
		return w
	}, weights)
	return &Layer{weights: weights, activation: layer.activation}
}

// Debug
func (l *Layer) String() string {
	return fmt.Sprintf("%d -> %d (%s)\n%v\n", l.InputSize(), l.OutputSize(), l.activation,
		mat.Formatted(l.weights, mat.Prefix(""), mat.Squeeze()))
}
