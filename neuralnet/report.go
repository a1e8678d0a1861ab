package neuralnet

import (
	"io"
	"log"
	"os"
)

// Progress is the observation emitted after every training step.
type Progress struct {
	Iteration int
	Loss      float64
	BestLoss  float64
	Improved  bool
	Converged bool
}

// Reporter receives training progress. The core never prints on its own.
type Reporter interface {
	Report(p Progress)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(p Progress)

func (f ReporterFunc) Report(p Progress) {
	f(p)
}

func report(r Reporter, p Progress) {
	if r != nil {
		r.Report(p)
	}
}

// LogReporter prints a line on every improvement, every Every iterations and
// on convergence.
type LogReporter struct {
	Logger  *log.Logger
	Verbose bool
	Every   int
}

// NewLogReporter writes to w, or to stdout when w is nil.
func NewLogReporter(w io.Writer, verbose bool, every int) *LogReporter {
	if w == nil {
		w = os.Stdout
	}
	return &LogReporter{
		Logger:  log.New(w, "", log.LstdFlags),
		Verbose: verbose,
		Every:   every,
	}
}

func (r *LogReporter) Report(p Progress) {
	if !r.Verbose {
		return
	}
	switch {
	case p.Converged:
		r.Logger.Printf("(%d) Converged, loss = %.4f", p.Iteration, p.Loss)
	case p.Improved:
		r.Logger.Printf("(%d) Best loss = %.4f", p.Iteration, p.BestLoss)
	case r.Every > 0 && p.Iteration%r.Every == 0:
		r.Logger.Printf("(%d) Loss = %.4f, best = %.4f", p.Iteration, p.Loss, p.BestLoss)
	}
}
