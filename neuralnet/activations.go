package neuralnet

import "math"

// ActivationFunction is applied to every node of a layer after the affine step.
type ActivationFunction interface {
	Activate(x float64) float64
	String() string
}

// ReLU rectifies at zero: max(0, x).
type ReLU struct{}

func (r ReLU) Activate(x float64) float64 {
	return math.Max(x, 0)
}

func (r ReLU) String() string {
	return "relu"
}

// Linear leaves the affine result untouched. Used for the output layer.
type Linear struct{}

func (l Linear) Activate(x float64) float64 {
	return x
}

func (l Linear) String() string {
	return "linear"
}

func activationFor(useActivation bool) ActivationFunction {
	if useActivation {
		return ReLU{}
	}
	return Linear{}
}
