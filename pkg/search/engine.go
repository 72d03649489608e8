// Package search runs a generation-based exploration loop around bounded
// candidate pools.
//
// Each generation, the retained elite candidates spawn mutants which are
// scored concurrently: every worker owns its own single-threaded pool, and
// after the generation the worker pools merge their fittest survivors into
// the shared elite pool. Scoring stays entirely in the caller-supplied
// Objective; the pools only rank what they are given.
package search

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	concpool "github.com/sourcegraph/conc/pool"

	"github.com/stephengold/poolsearch/pkg/config"
	"github.com/stephengold/poolsearch/pkg/errors"
	"github.com/stephengold/poolsearch/pkg/logging"
	"github.com/stephengold/poolsearch/pkg/pool"
)

// Objective scores a candidate; higher is better. An error skips the
// candidate without aborting the run.
type Objective[E comparable] func(ctx context.Context, candidate E) (float64, error)

// Mutator derives a neighboring candidate from a parent using the
// worker-local RNG.
type Mutator[E comparable] func(rng *rand.Rand, parent E) E

// Result summarizes a completed run.
type Result[E comparable] struct {
	RunID       string
	Best        E
	BestScore   float64
	Evaluations int
	Generations int
}

// Engine owns the elite pool and drives the mutate-evaluate-merge loop.
// An Engine is single-use: create one per run.
type Engine[E comparable] struct {
	cfg       config.SearchConfig
	objective Objective[E]
	mutate    Mutator[E]
	rng       *rand.Rand
	elite     *pool.Pool[float64, E]
}

// New creates an engine for the given configuration and callbacks.
func New[E comparable](cfg config.SearchConfig, objective Objective[E], mutate Mutator[E]) (*Engine[E], error) {
	if objective == nil {
		return nil, errors.New(errors.InvalidArgument, "objective must not be nil")
	}
	if mutate == nil {
		return nil, errors.New(errors.InvalidArgument, "mutator must not be nil")
	}
	if err := config.Validate(&config.Config{Search: cfg}); err != nil {
		return nil, errors.Wrap(err, errors.InvalidArgument, "invalid search configuration")
	}

	seed := cfg.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}

	elite, err := pool.New[float64, E](cfg.PoolCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine[E]{
		cfg:       cfg,
		objective: objective,
		mutate:    mutate,
		rng:       rand.New(rand.NewSource(seed)),
		elite:     elite,
	}, nil
}

// Elite exposes the engine's elite pool. Callers must not mutate it while
// Run is in progress.
func (e *Engine[E]) Elite() *pool.Pool[float64, E] {
	return e.elite
}

// Run executes the search, starting from the given seed candidates, until
// the configured generation count is reached or ctx is canceled.
func (e *Engine[E]) Run(ctx context.Context, seeds []E) (*Result[E], error) {
	if len(seeds) == 0 {
		return nil, errors.New(errors.InvalidArgument, "at least one seed candidate is required")
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.GetLogger()

	evaluations := 0

	// Score the seeds on the caller's goroutine.
	for _, seed := range seeds {
		if err := errors.CheckContext(ctx, "search run"); err != nil {
			return nil, err
		}
		score, err := e.objective(ctx, seed)
		evaluations++
		if err != nil {
			logger.Warn(ctx, "objective failed for seed candidate, skipping: %v", err)
			continue
		}
		if err := e.elite.Add(seed, score); err != nil {
			return nil, err
		}
	}
	if e.elite.Size() == 0 {
		return nil, errors.New(errors.InvalidArgument, "no seed candidate produced a score")
	}

	generation := 0
	for ; generation < e.cfg.Generations; generation++ {
		if err := errors.CheckContext(ctx, "search run"); err != nil {
			return nil, err
		}

		evaluated, err := e.runGeneration(ctx, logger)
		if err != nil {
			return nil, err
		}
		evaluations += evaluated

		best, _ := e.elite.BestScore()
		logger.Debug(ctx, "generation %d complete: evaluated=%d best=%.6f elite=%d",
			generation+1, evaluated, best, e.elite.Size())
	}

	best, _ := e.elite.Fittest()
	bestScore, _ := e.elite.BestScore()
	logger.Info(ctx, "search complete: generations=%d evaluations=%d best=%.6f",
		generation, evaluations, bestScore)

	return &Result[E]{
		RunID:       runID,
		Best:        best,
		BestScore:   bestScore,
		Evaluations: evaluations,
		Generations: generation,
	}, nil
}

// runGeneration mutates the current elite across worker-owned pools and
// merges the survivors back. Returns the number of objective calls made.
func (e *Engine[E]) runGeneration(ctx context.Context, logger *logging.Logger) (int, error) {
	parents := e.elite.ListElements()

	workers := e.cfg.Workers
	workerPools := make([]*pool.Pool[float64, E], workers)
	workerRNGs := make([]*rand.Rand, workers)
	for i := 0; i < workers; i++ {
		wp, err := pool.New[float64, E](e.cfg.PoolCapacity)
		if err != nil {
			return 0, err
		}
		workerPools[i] = wp
		workerRNGs[i] = rand.New(rand.NewSource(e.rng.Int63()))
	}

	var mu sync.Mutex
	evaluated := 0
	failures := 0

	// One task per worker; each task exclusively owns its pool and RNG,
	// so the pools stay single-threaded.
	p := concpool.New().WithMaxGoroutines(workers)
	for w := 0; w < workers; w++ {
		w := w // Capture loop variable
		p.Go(func() {
			rng := workerRNGs[w]
			own := workerPools[w]
			var zero E

			for i := w; i < len(parents); i += workers {
				parent := parents[i]
				for m := 0; m < e.cfg.MutantsPerParent; m++ {
					if ctx.Err() != nil {
						return
					}

					candidate := e.mutate(rng, parent)
					score, err := e.objective(ctx, candidate)

					mu.Lock()
					evaluated++
					if err != nil {
						failures++
					}
					mu.Unlock()

					if err != nil || candidate == zero {
						continue
					}
					// A rejected Add just means the worker pool is
					// already full of better candidates.
					_ = own.Add(candidate, score)
				}
			}
		})
	}
	p.Wait()

	if failures > 0 {
		logger.Warn(ctx, "%d of %d evaluations failed this generation", failures, evaluated)
	}

	if err := errors.CheckContext(ctx, "search run"); err != nil {
		return evaluated, err
	}

	for _, wp := range workerPools {
		if _, err := wp.MergeFittestTo(e.cfg.MergeBudget, e.elite); err != nil {
			return evaluated, err
		}
	}
	return evaluated, nil
}

// SampleElite returns up to maxCount elite candidates drawn uniformly
// without replacement, e.g. to seed a follow-up run or report a spread of
// solutions.
func (e *Engine[E]) SampleElite(maxCount int) ([]E, error) {
	if maxCount < 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidArgument, "sample size must be non-negative"),
			errors.Fields{"maxCount": maxCount})
	}
	if maxCount == 0 || e.elite.Size() == 0 {
		return nil, nil
	}

	scratch, err := pool.New[float64, E](e.elite.Size())
	if err != nil {
		return nil, err
	}
	picker := pool.NewRandomPicker(e.rng.Int63())
	if _, err := e.elite.MergeUniformTo(maxCount, picker, scratch); err != nil {
		return nil, err
	}
	return scratch.ListElements(), nil
}
