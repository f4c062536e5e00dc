package ga

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Local is the default, in-process fitness evaluator (spec.md §4.7):
// call CalculateFitness on every wrapper; the first error wins. The
// contract is serial (errors propagate, every wrapper is accounted for
// before returning); the implementation runs calls concurrently, bounded
// by GOMAXPROCS, via errgroup since CalculateFitness is specified as a
// pure, self-contained operation on the genome (SPEC_FULL.md §4.7),
// grounded on darwinium's RefreshFitness (errgroup.WithContext + SetLimit).
func Local(ctx context.Context, pop Population) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range pop {
		i := i
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			return pop[i].Genome.CalculateFitness()
		})
	}
	return g.Wait()
}
