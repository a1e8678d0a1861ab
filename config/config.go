package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Training modes.
const (
	ModeInspect    = "inspect"
	ModeDistribute = "distribute"
	ModeHillClimb  = "hillclimb"
)

// Config holds a run of the command line tool.
type Config struct {
	Shape         []int
	WeightRange   [2]float64
	Mode          string
	LearningRate  float64
	LossTarget    float64
	MaxChange     float64
	ChangeRate    float64
	MaxIterations int
	Timeout       time.Duration
	Seed          uint64
	DataPath      string
	Verbose       bool
	ReportEvery   int
}

// ParseShape parses space or comma separated layer sizes, e.g. "2 3 2".
func ParseShape(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	shape := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "shape entry %d", i)
		}
		shape[i] = n
	}
	return shape, nil
}

// ParseRange parses a "lo,hi" pair of weight bounds.
func ParseRange(s string) ([2]float64, error) {
	var r [2]float64
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return r, errors.Errorf("weight range %q must be two comma separated numbers", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r, errors.Wrapf(err, "weight range bound %d", i)
		}
		r[i] = v
	}
	return r, nil
}

// Validate checks a configuration before anything is built from it.
func Validate(c *Config) error {
	if len(c.Shape) < 2 {
		return errors.New("shape must have at least 2 layers (input and output)")
	}
	for i, n := range c.Shape {
		if n < 1 {
			return errors.Errorf("shape entry %d must be positive, got %d", i, n)
		}
	}

	switch c.Mode {
	case ModeInspect:
	case ModeDistribute:
		if c.LearningRate <= 0 {
			return errors.New("learning rate must be positive")
		}
	case ModeHillClimb:
		if c.MaxChange <= 0 && c.ChangeRate <= 0 {
			return errors.New("hill climbing needs a positive max change or change rate")
		}
	default:
		return errors.Errorf("unknown mode %q", c.Mode)
	}

	if c.ChangeRate < 0 || c.ChangeRate > 1 {
		return errors.Errorf("change rate must be within [0, 1], got %v", c.ChangeRate)
	}
	if c.MaxIterations < 0 {
		return errors.New("max iterations must not be negative")
	}
	if c.Mode != ModeInspect && c.MaxIterations == 0 && c.Timeout <= 0 {
		return errors.New("training needs a max iterations or timeout bound")
	}
	return nil
}
