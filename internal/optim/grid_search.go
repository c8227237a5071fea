package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/physics2d/internal/sim"
)

var ErrNoTrials = errors.New("optim: no parameter combination ran")

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// RunFunc runs one simulation with the given parameters.
type RunFunc func(ctx context.Context, params map[string]float64) (*sim.Result, error)

// GridSearch evaluates every combination of parameter values and keeps
// the one that minimises a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search returns the best parameters, their metric value and every trial
// in grid order. Failed runs and missing or NaN metrics are recorded but
// never win.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, metricName string) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		trial := Trial{Params: params, Value: math.NaN()}
		result, err := run(ctx, params)
		switch {
		case err != nil:
			trial.Err = err
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				trial.Err = fmt.Errorf("optim: metric %s not recorded", metricName)
				break
			}
			trial.Value = v
			if v < best {
				best = v
				bestParams = params
			}
		}
		trials = append(trials, trial)
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, ErrNoTrials
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
