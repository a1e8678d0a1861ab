package neuralnet

import (
	"context"
	"math"

	"golang.org/x/exp/rand"
)

// HillClimber searches by random perturbation, keeping a candidate only when
// its loss beats the best seen so far. It carries that best network and loss
// from one Step to the next.
type HillClimber struct {
	Source    rand.Source
	MaxChange float64
	// ChangeRate > 0 replaces perturbation with resampling: each weight is
	// redrawn from WeightRange with this probability.
	ChangeRate  float64
	WeightRange Range

	best     *Network
	bestLoss float64
	lastLoss float64
}

// Step tries one candidate derived from the best network. Passing a network
// other than the one the previous Step returned restarts the search from it
// with an infinite best loss, so the first candidate is always kept.
func (h *HillClimber) Step(nn *Network, examples, targets [][]float64) (*Network, error) {
	if h.best != nn {
		h.best, h.bestLoss = nn, math.Inf(1)
	}

	var candidate *Network
	if h.ChangeRate > 0 {
		candidate = ResampledNetwork(h.Source, h.best, h.WeightRange, h.ChangeRate)
	} else {
		candidate = SimilarNetwork(h.Source, h.best, h.MaxChange)
	}

	loss, err := MeanSquaredError(candidate, examples, targets)
	if err != nil {
		return nil, err
	}
	h.lastLoss = loss
	if loss < h.bestLoss {
		h.best, h.bestLoss = candidate, loss
	}
	return h.best, nil
}

// Best returns the best network and its loss; the loss is +Inf before the
// first Step.
func (h *HillClimber) Best() (*Network, float64) {
	if h.best == nil {
		return nil, math.Inf(1)
	}
	return h.best, h.bestLoss
}

// Loss is the loss of the last candidate tried, kept or not.
func (h *HillClimber) Loss() float64 {
	if h.best == nil {
		return math.Inf(1)
	}
	return h.lastLoss
}

type hillClimbConfig struct {
	maxIterations int
	reporter      Reporter
	changeRate    float64
	weightRange   Range
}

// HillClimbOption tunes HillClimbTraining.
type HillClimbOption func(*hillClimbConfig)

// WithMaxIterations stops the search after n candidates.
func WithMaxIterations(n int) HillClimbOption {
	return func(c *hillClimbConfig) {
		c.maxIterations = n
	}
}

func WithReporter(r Reporter) HillClimbOption {
	return func(c *hillClimbConfig) {
		c.reporter = r
	}
}

// WithResampling derives candidates by redrawing weights from weightRange
// with probability changeRate instead of perturbing them.
func WithResampling(weightRange Range, changeRate float64) HillClimbOption {
	return func(c *hillClimbConfig) {
		c.weightRange = weightRange
		c.changeRate = changeRate
	}
}

// HillClimbTraining searches until the best mean squared error is below
// lossTarget. Nothing else ends the search, so ctx (or WithMaxIterations)
// must bound it when the target may be out of reach. On cancellation the best
// network found so far is returned along with the error.
func HillClimbTraining(ctx context.Context, src rand.Source, nn *Network, examples, targets [][]float64, lossTarget, maxChangeAmount float64, opts ...HillClimbOption) (*Network, float64, error) {
	var cfg hillClimbConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	climber := &HillClimber{
		Source:      src,
		MaxChange:   maxChangeAmount,
		ChangeRate:  cfg.changeRate,
		WeightRange: cfg.weightRange,
	}
	best, progress, err := Train(ctx, nn, examples, targets, climber,
		Stop{LossTarget: lossTarget, MaxIterations: cfg.maxIterations}, cfg.reporter)
	return best, progress.BestLoss, err
}
