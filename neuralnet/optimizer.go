package neuralnet

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// Optimizer produces the next network from the current one and the examples.
type Optimizer interface {
	Step(nn *Network, examples, targets [][]float64) (*Network, error)
}

// lossMeasurer is implemented by optimizers that already measured the loss of
// the network they last evaluated.
type lossMeasurer interface {
	Loss() float64
}

// Stop bounds a training run.
type Stop struct {
	// LossTarget ends the run once the mean squared error drops below it.
	LossTarget float64
	// MaxIterations caps the number of steps; 0 means no cap.
	MaxIterations int
}

// Train repeats opt.Step until the loss falls below stop.LossTarget, the
// iteration budget runs out (ErrBudgetExhausted) or ctx is done (ctx.Err()).
// It always returns the last network produced, with the progress so far.
func Train(ctx context.Context, nn *Network, examples, targets [][]float64, opt Optimizer, stop Stop, reporter Reporter) (*Network, Progress, error) {
	if err := checkExamples(nn, examples, targets); err != nil {
		return nil, Progress{}, err
	}

	progress := Progress{BestLoss: math.Inf(1)}
	for {
		if err := ctx.Err(); err != nil {
			return nn, progress, err
		}
		if stop.MaxIterations > 0 && progress.Iteration >= stop.MaxIterations {
			return nn, progress, ErrBudgetExhausted
		}

		next, err := opt.Step(nn, examples, targets)
		if err != nil {
			return nn, progress, errors.Wrapf(err, "iteration %d", progress.Iteration+1)
		}
		nn = next

		var loss float64
		if m, ok := opt.(lossMeasurer); ok {
			loss = m.Loss()
		} else if loss, err = MeanSquaredError(nn, examples, targets); err != nil {
			return nn, progress, err
		}

		progress.Iteration++
		progress.Loss = loss
		progress.Improved = loss < progress.BestLoss
		if progress.Improved {
			progress.BestLoss = loss
		}
		progress.Converged = loss < stop.LossTarget
		report(reporter, progress)

		if progress.Converged {
			return nn, progress, nil
		}
	}
}
