package neuralnet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// layerOf builds a layer from row-major weights, bias row last.
func layerOf(t *testing.T, inputs, outputs int, useActivation bool, weights ...float64) *Layer {
	t.Helper()
	layer, err := NewLayer(mat.NewDense(inputs+1, outputs, weights), useActivation)
	require.NoError(t, err)
	return layer
}

// linearExamples is target = 5x + 5.
func linearExamples() ([][]float64, [][]float64) {
	return [][]float64{{3}, {4}, {5}, {6}},
		[][]float64{{20}, {25}, {30}, {35}}
}
