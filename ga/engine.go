// Package ga implements the generational engine, factory contract,
// genome wrapper, and default single-/multi-objective policies
// (spec.md §3, §4).
package ga

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelga/distga/ga/rng"
	"github.com/kestrelga/distga/gaerr"
	"github.com/kestrelga/distga/parameter"
)

// Evaluator computes fitness for every wrapper in pop, in place. The
// default is Local (in-process); the coordinator installs a distributed
// evaluator instead (spec.md §4.6 "Evaluate", §4.7, §4.8).
type Evaluator func(ctx context.Context, pop Population) error

// RunStats is published once per generation via StatsHook (SPEC_FULL.md
// §3, grounded on genetic/type.go's PoolStats).
type RunStats struct {
	Generation   int
	PopulationSz int
	BestFitness  string
	Duration     time.Duration
}

// Engine drives one run of the generational state machine (spec.md
// §4.6): Init -> (Evaluate -> Sort -> OnSorted -> UpdateBest -> Breed ->
// Mutate -> OnStep)* -> Report -> Teardown.
type Engine struct {
	factory    Factory
	rngSrc     rng.Source
	evaluator  Evaluator
	population Population
	generation int

	// pendingInfoChanged latches OnStep's generationInfoChanged flag for
	// the distributed evaluator to consume before its next dispatch.
	pendingInfoChanged bool

	// StatsHook, if set, is called once per completed generation.
	StatsHook func(RunStats)

	// ReportHook, if set, is called every ReportInterval with a snapshot
	// of the current best-set (spec.md §4.6 "fire onCurrentBest").
	ReportHook func(best []Genome)

	lastReport time.Time
}

// New constructs an Engine. populationSize must be >= 5 (spec.md §4.6
// "populationSize < 5 -> InvalidArgument").
func New(factory Factory, populationSize int, gaParams Params, src rng.Source) (*Engine, error) {
	if populationSize < parameter.MinPopulationSize {
		return nil, gaerr.New(gaerr.Programmer, fmt.Sprintf("population size %d below minimum %d", populationSize, parameter.MinPopulationSize))
	}
	factory.SetGAParams(gaParams)
	return &Engine{
		factory:   factory,
		rngSrc:    src,
		evaluator: Local,
		population: func() Population {
			pop := make(Population, populationSize)
			for i := range pop {
				pop[i] = Fresh(factory.CreateNewGenome())
			}
			return pop
		}(),
	}, nil
}

// SetEvaluator overrides the fitness evaluator; the coordinator calls
// this to install its distributed evaluator (spec.md §4.6 "Evaluate").
func (e *Engine) SetEvaluator(ev Evaluator) { e.evaluator = ev }

// CurrentGeneration returns the 0-based generation counter.
func (e *Engine) CurrentGeneration() int { return e.generation }

// BestGenomes returns the factory's current best-set (read-only view;
// callers must not mutate the returned genomes).
func (e *Engine) BestGenomes() []Genome { return e.factory.BestGenomes() }

// NumberOfBestGenomes is a convenience accessor over BestGenomes.
func (e *Engine) NumberOfBestGenomes() int { return len(e.factory.BestGenomes()) }

// SelectPreferredGenome delegates to the factory (spec.md §4.6).
func (e *Engine) SelectPreferredGenome() Genome { return e.factory.SelectPreferredGenome() }

// PopulationSize returns the fixed population size for this run.
func (e *Engine) PopulationSize() int { return len(e.population) }

// Run drives generations until maxGenerations is reached, the factory's
// OnStep asks to stop, or ctx is cancelled. Any subordinate step failing
// aborts the run and unwinds cleanly (spec.md §4.6, §7).
func (e *Engine) Run(ctx context.Context, maxGenerations int) error {
	if err := e.factory.OnStart(); err != nil {
		return gaerr.Wrap(gaerr.Factory, "OnStart failed", err)
	}
	defer e.teardown()

	e.lastReport = time.Now()

	for e.generation = 0; maxGenerations <= 0 || e.generation < maxGenerations; e.generation++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.step(ctx); err != nil {
			if _, stopped := err.(errStop); stopped {
				return nil
			}
			return err
		}

		if e.ReportHook != nil && time.Since(e.lastReport) >= parameter.ReportInterval {
			e.ReportHook(e.factory.BestGenomes())
			e.lastReport = time.Now()
		}
	}
	return nil
}

// step runs one full generation: Evaluate -> Sort -> OnSorted ->
// UpdateBest -> Breed -> Mutate -> OnStep -> rotate.
func (e *Engine) step(ctx context.Context) error {
	start := time.Now()

	if err := e.evaluator(ctx, e.population); err != nil {
		return gaerr.Wrap(gaerr.Transport, "fitness evaluation failed", err)
	}

	e.factory.Sort(e.population)
	e.factory.OnSortedPopulation(e.population)
	e.factory.UpdateBestGenomes(e.population)

	newPop := e.factory.Breed(e.population, e.rngSrc)
	if len(newPop) != len(e.population) {
		return gaerr.New(gaerr.Programmer, fmt.Sprintf("breed returned %d wrappers, want %d", len(newPop), len(e.population)))
	}
	e.factory.IntroduceMutations(newPop, e.rngSrc)

	infoChanged, stop, err := e.factory.OnStep(e.generation)
	if err != nil {
		return gaerr.Wrap(gaerr.Factory, "OnStep failed", err)
	}

	e.population = newPop

	if e.StatsHook != nil {
		best := ""
		if bg := e.factory.BestGenomes(); len(bg) > 0 {
			best = bg[0].DescribeFitness()
		}
		e.StatsHook(RunStats{
			Generation:   e.generation,
			PopulationSz: len(e.population),
			BestFitness:  best,
			Duration:     time.Since(start),
		})
	}

	if stop {
		return errStop{}
	}
	if infoChanged {
		// Latch the flag on the engine; GenerationInfoChanged reads it.
		e.pendingInfoChanged = true
	}
	return nil
}

// GenerationInfoChanged reports whether OnStep has set
// generationInfoChanged since the last call, and clears the latch. The
// coordinator's distributed evaluator does not call it, so no
// GENERATION_INFO broadcast is sent to helpers when the flag is set.
func (e *Engine) GenerationInfoChanged() bool {
	changed := e.pendingInfoChanged
	e.pendingInfoChanged = false
	return changed
}

// Factory exposes the underlying factory for callers (e.g. the
// coordinator) that need to serialize genomes/fitness or broadcast
// generation info directly.
func (e *Engine) Factory() Factory { return e.factory }

func (e *Engine) teardown() {
	e.factory.OnStop()
}

// errStop is a sentinel returned internally by step to end Run cleanly
// when the factory asks to stop; Run treats it as a normal, non-error
// termination.
type errStop struct{}

func (errStop) Error() string { return "stop requested" }
