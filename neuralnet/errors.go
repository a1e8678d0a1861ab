package neuralnet

import (
	"fmt"

	"github.com/pkg/errors"
)

// ShapeError reports a vector or matrix whose size does not match what a layer
// or network expects.
type ShapeError struct {
	Op   string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: incorrect size, want %d, got %d", e.Op, e.Want, e.Got)
}

func shapeError(op string, want, got int) error {
	return &ShapeError{Op: op, Want: want, Got: got}
}

// DegenerateWeightError is returned when an output node's incoming weights
// sum to zero, so its error cannot be shared out proportionally. The nudges
// for the listed columns are zero.
type DegenerateWeightError struct {
	Columns []int
}

func (e *DegenerateWeightError) Error() string {
	return fmt.Sprintf("zero total incoming weight for output nodes %v", e.Columns)
}

// ErrBudgetExhausted is returned by training loops that ran out of iterations
// before reaching the loss target.
var ErrBudgetExhausted = errors.New("iteration budget exhausted before loss target")

// IsShapeError reports whether err is, or wraps, a *ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// IsDegenerate reports whether err is, or wraps, a *DegenerateWeightError.
func IsDegenerate(err error) bool {
	var de *DegenerateWeightError
	return errors.As(err, &de)
}
