package neuralnet

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Network is an ordered sequence of layers. The input layer is notional: the
// first layer's input size is the network's input size.
//
//	(1) _  (1) _        bias feeds every node
//	     \      \
//	x1 - node - y1
//	     X      X
//	x2 - node - y2
//	       ^
//	       ReLU on hidden layers, linear output
type Network struct {
	layers []*Layer
}

// NewNetwork checks that adjacent layers agree on their sizes.
func NewNetwork(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, shapeError("new network layers", 1, 0)
	}
	for i := 1; i < len(layers); i++ {
		if want, got := layers[i-1].OutputSize(), layers[i].InputSize(); want != got {
			return nil, shapeError(fmt.Sprintf("new network layer %d input", i), want, got)
		}
	}
	return &Network{layers: append([]*Layer(nil), layers...)}, nil
}

// RandomNetwork builds len(shape)-1 random layers joining consecutive shape
// entries. Every layer but the last is rectified.
func RandomNetwork(src rand.Source, shape []int, weightRange Range) (*Network, error) {
	if len(shape) < 2 {
		return nil, shapeError("random network shape length", 2, len(shape))
	}
	for i, size := range shape {
		if size < 1 {
			return nil, shapeError(fmt.Sprintf("random network shape[%d]", i), 1, size)
		}
	}

	layers := make([]*Layer, len(shape)-1)
	for i := range layers {
		layer, err := RandomLayer(src, shape[i], shape[i+1], weightRange, i < len(layers)-1)
		if err != nil {
			return nil, err
		}
		layers[i] = layer
	}
	return &Network{layers: layers}, nil
}

func (nn *Network) InputSize() int {
	return nn.layers[0].InputSize()
}

func (nn *Network) OutputSize() int {
	return nn.layers[len(nn.layers)-1].OutputSize()
}

// NumLayers counts functional layers, input layer excluded.
func (nn *Network) NumLayers() int {
	return len(nn.layers)
}

// Shape is the input size followed by every layer's output size.
func (nn *Network) Shape() []int {
	shape := make([]int, len(nn.layers)+1)
	shape[0] = nn.InputSize()
	for i, layer := range nn.layers {
		shape[i+1] = layer.OutputSize()
	}
	return shape
}

func (nn *Network) Layer(i int) *Layer {
	return nn.layers[i]
}

func (nn *Network) Layers() []*Layer {
	return append([]*Layer(nil), nn.layers...)
}

// Predict threads input through every layer in order.
func (nn *Network) Predict(input []float64) ([]float64, error) {
	if len(input) != nn.InputSize() {
		return nil, shapeError("predict", nn.InputSize(), len(input))
	}
	next := input
	for _, layer := range nn.layers {
		var err error
		if next, err = layer.ForwardPropagate(next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// SimilarNetwork perturbs every layer with SimilarLayer.
func SimilarNetwork(src rand.Source, nn *Network, maxChangeAmount float64) *Network {
	layers := make([]*Layer, len(nn.layers))
	for i, layer := range nn.layers {
		layers[i] = SimilarLayer(src, layer, maxChangeAmount)
	}
	return &Network{layers: layers}
}

// ResampledNetwork resamples every layer with ResampledLayer.
func ResampledNetwork(src rand.Source, nn *Network, weightRange Range, changeRate float64) *Network {
	layers := make([]*Layer, len(nn.layers))
	for i, layer := range nn.layers {
		layers[i] = ResampledLayer(src, layer, weightRange, changeRate)
	}
	return &Network{layers: layers}
}

// Jacobian estimates d(output)/d(input) at input with central differences.
// The result is OutputSize x InputSize.
func (nn *Network) Jacobian(input []float64) (*mat.Dense, error) {
	if len(input) != nn.InputSize() {
		return nil, shapeError("jacobian", nn.InputSize(), len(input))
	}
	if nn.InputSize() == 0 {
		return nil, shapeError("jacobian inputs", 1, 0)
	}
	jac := mat.NewDense(nn.OutputSize(), nn.InputSize(), nil)
	fd.Jacobian(jac,
		func(y, x []float64) {
			// x always has InputSize elements here
			out, _ := nn.Predict(x)
			copy(y, out)
		},
		input,
		&fd.JacobianSettings{
			Formula:    fd.Central,
			Concurrent: false,
		})
	return jac, nil
}

func (nn *Network) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shape: %v\n", nn.Shape()))
	for i, layer := range nn.layers {
		sb.WriteString(fmt.Sprintf("Layer %d: %s", i, layer.String()))
	}
	return sb.String()
}
