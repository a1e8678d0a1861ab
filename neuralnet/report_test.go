package neuralnet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf, true, 10)

	r.Report(Progress{Iteration: 1, Loss: 4, BestLoss: 4, Improved: true})
	assert.Contains(t, buf.String(), "(1) Best loss = 4.0000")

	buf.Reset()
	r.Report(Progress{Iteration: 7, Loss: 5, BestLoss: 4})
	assert.Empty(t, buf.String())

	r.Report(Progress{Iteration: 20, Loss: 5, BestLoss: 4})
	assert.Contains(t, buf.String(), "(20) Loss = 5.0000, best = 4.0000")

	buf.Reset()
	r.Report(Progress{Iteration: 21, Loss: 0.01, BestLoss: 0.01, Improved: true, Converged: true})
	assert.Contains(t, buf.String(), "(21) Converged")
}

func TestLogReporterQuiet(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogReporter(&buf, false, 1)
	r.Report(Progress{Iteration: 1, Loss: 4, BestLoss: 4, Improved: true})
	assert.Empty(t, buf.String())
}
