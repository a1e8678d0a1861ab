// scratchnet: builds a small feed-forward network and trains it with error
// distribution or hill climbing.
//
// Usage:
//
//	scratchnet -shape "1 1" -weights "-5,5" -mode hillclimb -loss-target 0.1 -max-change 0.05
//	scratchnet -shape "2 3 2" -weights "0,1" -mode inspect
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"scratchnet/config"
	"scratchnet/dataset"
	"scratchnet/neuralnet"
)

var (
	shape        = flag.String("shape", "1 1", "Layer sizes, input first")
	weights      = flag.String("weights", "-5,5", "Initial weight range lo,hi")
	mode         = flag.String("mode", config.ModeHillClimb, "inspect, distribute or hillclimb")
	learningRate = flag.Float64("lr", 0.001, "Learning rate for error distribution")
	lossTarget   = flag.Float64("loss-target", 0.1, "Stop once mean squared error is below this")
	maxChange    = flag.Float64("max-change", 0.05, "Largest perturbation per weight when hill climbing")
	changeRate   = flag.Float64("change-rate", 0, "Resample each weight with this probability instead of perturbing")
	maxIter      = flag.Int("max-iter", 1000000, "Iteration budget, 0 for none")
	timeout      = flag.Duration("timeout", time.Minute, "Wall clock budget, 0 for none")
	seed         = flag.Uint64("seed", 0, "Random seed, 0 picks one from the clock")
	dataPath     = flag.String("data", "", "CSV of examples (features then targets); default is y = 5x + 5")
	verbose      = flag.Bool("verbose", true, "Print progress")
	reportEvery  = flag.Int("report-every", 1000, "Print a progress line every N iterations")
)

func main() {
	flag.Parse()

	cfg, err := parseFlags()
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func parseFlags() (*config.Config, error) {
	s, err := config.ParseShape(*shape)
	if err != nil {
		return nil, err
	}
	r, err := config.ParseRange(*weights)
	if err != nil {
		return nil, err
	}
	cfg := &config.Config{
		Shape:         s,
		WeightRange:   r,
		Mode:          *mode,
		LearningRate:  *learningRate,
		LossTarget:    *lossTarget,
		MaxChange:     *maxChange,
		ChangeRate:    *changeRate,
		MaxIterations: *maxIter,
		Timeout:       *timeout,
		Seed:          *seed,
		DataPath:      *dataPath,
		Verbose:       *verbose,
		ReportEvery:   *reportEvery,
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	src := neuralnet.NewSource(cfg.Seed)
	weightRange := neuralnet.Range{Lo: cfg.WeightRange[0], Hi: cfg.WeightRange[1]}

	network, err := neuralnet.RandomNetwork(src, cfg.Shape, weightRange)
	if err != nil {
		return err
	}

	if cfg.Mode == config.ModeInspect {
		return inspect(network, src)
	}

	set, err := loadExamples(cfg)
	if err != nil {
		return err
	}
	examples, targets := set.Examples(), set.TargetRows()

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	reporter := neuralnet.NewLogReporter(os.Stdout, cfg.Verbose, cfg.ReportEvery)

	fmt.Printf("Training %v network (%s), seed %d, %d examples\n", network.Shape(), cfg.Mode, cfg.Seed, set.Len())
	start := time.Now()

	var (
		trained *neuralnet.Network
		loss    float64
	)
	switch cfg.Mode {
	case config.ModeDistribute:
		var progress neuralnet.Progress
		trained, progress, err = neuralnet.Train(ctx, network, examples, targets,
			&neuralnet.ErrorDistribution{LearningRate: cfg.LearningRate, TolerateDegenerate: true},
			neuralnet.Stop{LossTarget: cfg.LossTarget, MaxIterations: cfg.MaxIterations}, reporter)
		loss = progress.Loss
	case config.ModeHillClimb:
		opts := []neuralnet.HillClimbOption{
			neuralnet.WithMaxIterations(cfg.MaxIterations),
			neuralnet.WithReporter(reporter),
		}
		if cfg.ChangeRate > 0 {
			opts = append(opts, neuralnet.WithResampling(weightRange, cfg.ChangeRate))
		}
		trained, loss, err = neuralnet.HillClimbTraining(ctx, src, network, examples, targets,
			cfg.LossTarget, cfg.MaxChange, opts...)
	}
	fmt.Printf("Training took %v, loss %.4f\n", time.Since(start), loss)

	if err != nil {
		if trained == nil || !(errors.Is(err, neuralnet.ErrBudgetExhausted) || errors.Is(err, context.DeadlineExceeded)) {
			return err
		}
		fmt.Println("Stopped before reaching the loss target:", err)
	}
	fmt.Print(trained)
	return nil
}

func loadExamples(cfg *config.Config) (*dataset.Set, error) {
	in, out := cfg.Shape[0], cfg.Shape[len(cfg.Shape)-1]
	if cfg.DataPath != "" {
		return dataset.LoadFile(cfg.DataPath, in, out)
	}
	set := dataset.Linear()
	if set.InputSize() != in || set.OutputSize() != out {
		return nil, errors.Errorf("the built-in examples need shape 1 ... 1, got %v", cfg.Shape)
	}
	return set, nil
}

func inspect(network *neuralnet.Network, src rand.Source) error {
	fmt.Println("Input size:", network.InputSize())
	fmt.Println("Layers:", network.NumLayers())
	fmt.Println("Output size:", network.OutputSize())
	fmt.Println("Shape:", network.Shape())

	dist := distuv.Uniform{Min: -5, Max: 5, Src: src}
	input := make([]float64, network.InputSize())
	for i := range input {
		input[i] = dist.Rand()
	}
	output, err := network.Predict(input)
	if err != nil {
		return err
	}
	jac, err := network.Jacobian(input)
	if err != nil {
		return err
	}

	fmt.Printf("Input: %.3f\n", input)
	fmt.Printf("Output: %.3f\n", output)
	fmt.Printf("Jacobian:\n%.3f\n", mat.Formatted(jac, mat.Squeeze()))
	fmt.Print(network)
	return nil
}
