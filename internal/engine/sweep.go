package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/basket/internal/model"
	"github.com/Veraticus/basket/internal/service"
)

// SweepPoint is the outcome of one run in a parameter sweep.
type SweepPoint struct {
	Config Config
	Run    *Run
}

// SweepOptions describe a series of runs over one input. Exactly one of
// Supports or Confidences is varied; the other threshold comes from Base.
type SweepOptions struct {
	Progress    func(done, total int)
	Supports    []int
	Confidences []float64
	Base        Config
}

// Sweep runs the engine once per value, recording each run when store is set.
// It stops at the first error, including cancellation of ctx.
func Sweep(ctx context.Context, store service.RunStore, input string, transactions []model.Transaction, opts SweepOptions) ([]SweepPoint, error) {
	configs, err := sweepConfigs(opts)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, 0, len(configs))
	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return points, fmt.Errorf("sweep stopped after %d of %d runs: %w", i, len(configs), err)
		}

		e, err := NewWithConfig(store, cfg)
		if err != nil {
			return points, err
		}
		run, err := e.Run(ctx, input, transactions)
		if err != nil {
			return points, err
		}
		points = append(points, SweepPoint{Config: run.Config, Run: run})

		if opts.Progress != nil {
			opts.Progress(i+1, len(configs))
		}
	}
	return points, nil
}

func sweepConfigs(opts SweepOptions) ([]Config, error) {
	switch {
	case len(opts.Supports) > 0 && len(opts.Confidences) > 0:
		return nil, fmt.Errorf("sweep varies either supports or confidences, not both")
	case len(opts.Supports) > 0:
		out := make([]Config, len(opts.Supports))
		for i, s := range opts.Supports {
			out[i] = opts.Base
			out[i].MinSupport = s
		}
		return out, nil
	case len(opts.Confidences) > 0:
		out := make([]Config, len(opts.Confidences))
		for i, c := range opts.Confidences {
			out[i] = opts.Base
			out[i].MinConfidence = c
		}
		return out, nil
	default:
		return nil, fmt.Errorf("sweep needs at least one support or confidence value")
	}
}
