package neuralnet

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestHillClimbTrainingConverges(t *testing.T) {
	nn, err := NewNetwork(layerOf(t, 1, 1, false, 4.5, 6))
	require.NoError(t, err)
	examples, targets := linearExamples()

	best, loss, err := HillClimbTraining(context.Background(), NewSource(1), nn, examples, targets,
		1.0, 0.05, WithMaxIterations(100000))
	require.NoError(t, err)
	assert.Less(t, loss, 1.0)

	measured, err := MeanSquaredError(best, examples, targets)
	require.NoError(t, err)
	assert.Equal(t, loss, measured)
}

func TestHillClimbTrainingBestLossNeverIncreases(t *testing.T) {
	nn, err := RandomNetwork(NewSource(3), []int{1, 2, 1}, Range{-5, 5})
	require.NoError(t, err)
	examples, targets := linearExamples()

	var losses []float64
	var rejected int
	reporter := ReporterFunc(func(p Progress) {
		losses = append(losses, p.BestLoss)
		assert.LessOrEqual(t, p.BestLoss, p.Loss)
		if p.Loss > p.BestLoss {
			rejected++
		}
	})
	_, loss, err := HillClimbTraining(context.Background(), NewSource(4), nn, examples, targets,
		0, 0.5, WithMaxIterations(500), WithReporter(reporter))
	assert.True(t, errors.Is(err, ErrBudgetExhausted))
	require.Len(t, losses, 500)
	assert.False(t, math.IsInf(loss, 1))

	for i := 1; i < len(losses); i++ {
		assert.LessOrEqual(t, losses[i], losses[i-1], "iteration %d", i+1)
	}
	assert.Equal(t, losses[len(losses)-1], loss)
	// some candidates must have been worse than the best and reported as such
	assert.Greater(t, rejected, 0)
}

func TestHillClimbTrainingReplacesFittedStart(t *testing.T) {
	nn, err := NewNetwork(layerOf(t, 1, 1, false, 5, 5))
	require.NoError(t, err)
	examples, targets := linearExamples()
	start, err := MeanSquaredError(nn, examples, targets)
	require.NoError(t, err)
	require.Equal(t, 0.0, start)

	best, loss, err := HillClimbTraining(context.Background(), NewSource(1), nn, examples, targets,
		1.0, 3.0, WithMaxIterations(1))
	if err != nil {
		assert.True(t, errors.Is(err, ErrBudgetExhausted))
	}
	assert.NotSame(t, nn, best)
	assert.Greater(t, loss, 0.0)

	measured, err := MeanSquaredError(best, examples, targets)
	require.NoError(t, err)
	assert.Equal(t, loss, measured)
}

func TestHillClimberFirstCandidateAlwaysKept(t *testing.T) {
	examples, targets := linearExamples()
	nn, err := NewNetwork(layerOf(t, 1, 1, false, 5, 5))
	require.NoError(t, err)

	climber := &HillClimber{Source: NewSource(7), MaxChange: 1}
	next, err := climber.Step(nn, examples, targets)
	require.NoError(t, err)
	assert.NotSame(t, nn, next)

	best, bestLoss := climber.Best()
	assert.Same(t, next, best)
	assert.Equal(t, bestLoss, climber.Loss())
}

func TestHillClimbTrainingDeterministic(t *testing.T) {
	examples, targets := linearExamples()
	run := func() (*Network, float64) {
		nn, err := RandomNetwork(NewSource(10), []int{1, 3, 1}, Range{-2, 2})
		require.NoError(t, err)
		best, loss, err := HillClimbTraining(context.Background(), NewSource(11), nn, examples, targets,
			0, 0.2, WithMaxIterations(200))
		require.True(t, errors.Is(err, ErrBudgetExhausted))
		return best, loss
	}

	a, lossA := run()
	b, lossB := run()
	assert.Equal(t, lossA, lossB)
	for i := 0; i < a.NumLayers(); i++ {
		assert.True(t, mat.Equal(a.Layer(i).Weights(), b.Layer(i).Weights()))
	}
}

func TestHillClimbTrainingResampling(t *testing.T) {
	nn, err := RandomNetwork(NewSource(12), []int{1, 1}, Range{-10, 10})
	require.NoError(t, err)
	examples, targets := linearExamples()

	best, loss, err := HillClimbTraining(context.Background(), NewSource(13), nn, examples, targets,
		0, 0, WithMaxIterations(300), WithResampling(Range{-10, 10}, 0.3))
	assert.True(t, errors.Is(err, ErrBudgetExhausted))
	assert.Equal(t, nn.Shape(), best.Shape())
	assert.False(t, math.IsInf(loss, 1))
}

func TestHillClimbTrainingCancelled(t *testing.T) {
	nn, err := NewNetwork(layerOf(t, 1, 1, false, 1, 1))
	require.NoError(t, err)
	examples, targets := linearExamples()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	best, loss, err := HillClimbTraining(ctx, NewSource(1), nn, examples, targets, 0.1, 0.05)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Same(t, nn, best)
	assert.True(t, math.IsInf(loss, 1))
}

func TestHillClimberRestartsOnForeignNetwork(t *testing.T) {
	examples, targets := linearExamples()
	a, err := NewNetwork(layerOf(t, 1, 1, false, 5, 5))
	require.NoError(t, err)
	b, err := NewNetwork(layerOf(t, 1, 1, false, -5, -5))
	require.NoError(t, err)

	climber := &HillClimber{Source: NewSource(2), MaxChange: 0.01}
	_, loss := climber.Best()
	assert.True(t, math.IsInf(loss, 1))

	_, err = climber.Step(a, examples, targets)
	require.NoError(t, err)
	_, nearPerfect := climber.Best()
	assert.Less(t, nearPerfect, 1.0)

	// a much worse start resets the best loss to +Inf instead of being compared to it
	next, err := climber.Step(b, examples, targets)
	require.NoError(t, err)
	_, restarted := climber.Best()
	assert.Greater(t, restarted, 100.0)
	assert.NotSame(t, a, next)
}
