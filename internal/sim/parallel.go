package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same setup over consecutive seeds in parallel. Each
// run gets its own engine and its own metrics from newMetrics.
type Ensemble struct {
	setup      Setup
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

func NewEnsemble(setup Setup, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{setup: setup, newMetrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed, in seed order. The first failing run
// cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			s := New(e.setup)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			r, err := s.Run(ctx, cfgCopy)
			results[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
