package neuralnet

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrorDistributionTraining performs one full-batch update and returns a new
// network; nn is left untouched.
//
// The mean output error (target - prediction) over all examples is shared
// out over the last layer's edges by GetDesiredNudges. Each edge delta matrix
// is then summed per input node to give the error of the layer below, and so
// on down to the first layer. Finally every layer is moved by its deltas
// times learningRate.
//
// If some output node has a zero total incoming weight, its nudges are zero,
// the step still completes, and the new network is returned together with
// the *DegenerateWeightError (wrapped with the layer index).
func ErrorDistributionTraining(nn *Network, examples, targets [][]float64, learningRate float64) (*Network, error) {
	if err := checkExamples(nn, examples, targets); err != nil {
		return nil, err
	}
	numLayers := nn.NumLayers()

	// NodeError[output][j] = Average(target[j] - prediction[j])
	outputError := make([]float64, nn.OutputSize())
	for i, example := range examples {
		prediction, err := nn.Predict(example)
		if err != nil {
			return nil, errors.Wrapf(err, "example %d", i)
		}
		floats.Add(outputError, SquaredError{}.Gradient(prediction, targets[i]))
	}
	for j := range outputError {
		outputError[j] /= float64(len(examples))
	}

	var degenerate error
	nudges := func(i int, nodeErrors []float64) (*mat.Dense, error) {
		deltas, err := nn.layers[i].GetDesiredNudges(nodeErrors)
		if IsDegenerate(err) {
			if degenerate == nil {
				degenerate = errors.Wrapf(err, "layer %d", i)
			}
			return deltas, nil
		}
		return deltas, err
	}

	// edgeDeltas[i] holds the nudges for the edges feeding layer i.
	edgeDeltas := make([]*mat.Dense, numLayers)
	var err error
	if edgeDeltas[numLayers-1], err = nudges(numLayers-1, outputError); err != nil {
		return nil, err
	}
	for i := numLayers - 2; i >= 0; i-- {
		nodeErrors, err := nn.layers[i+1].GetInputNodeErrors(edgeDeltas[i+1], false)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i+1)
		}
		if edgeDeltas[i], err = nudges(i, nodeErrors); err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}

	layers := make([]*Layer, numLayers)
	for i, layer := range nn.layers {
		if layers[i], err = NudgedLayer(layer, edgeDeltas[i], learningRate); err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
	}
	return &Network{layers: layers}, degenerate
}

// ErrorDistribution is the Optimizer form of ErrorDistributionTraining.
type ErrorDistribution struct {
	LearningRate float64
	// TolerateDegenerate makes steps that hit a zero total weight succeed,
	// with zero nudges for the affected nodes.
	TolerateDegenerate bool
}

func (o *ErrorDistribution) Step(nn *Network, examples, targets [][]float64) (*Network, error) {
	next, err := ErrorDistributionTraining(nn, examples, targets, o.LearningRate)
	if err != nil && o.TolerateDegenerate && IsDegenerate(err) {
		return next, nil
	}
	return next, err
}
