package ga

import (
	"github.com/kestrelga/distga/ga/rng"
	"github.com/kestrelga/distga/parameter"
)

// candidatePicker draws one breeding parent, returning both the wrapper
// it was picked from (for the inbreeding check, which reads that
// wrapper's own lineage) and its index in the previous sorted
// population (what the child's Parent1/Parent2 fields must record).
type candidatePicker func(src rng.Source) (w Wrapper, index int)

// breedFill runs the shared breeding body (spec.md §4.5) count times,
// appending freshly bred wrappers. It implements rank-biased parent
// selection with inbreeding avoidance and crossover-or-clone, identical
// for the single-objective path (picker draws genome indices directly)
// and the multi-objective path (picker draws a layer, then a uniform
// sub-index within it). The retry loop re-draws both candidates on every
// attempt, matching original_source/src/gafactorydefaults.cpp's
// commonBreed do-while body (it has no Go precedent in the teacher or
// the rest of the pack; the selection arithmetic itself is novel stdlib
// logic, grounded directly on that original source instead).
func breedFill(count int, pick candidatePicker, crossoverRate float64, src rng.Source) []Wrapper {
	out := make([]Wrapper, 0, count)
	for len(out) < count {
		c1, idx1 := pick(src)
		c2, idx2 := pick(src)
		for attempt := 1; attempt < parameter.InbreedingMaxRetries && inbred(c1, c2); attempt++ {
			c1, idx1 = pick(src)
			c2, idx2 = pick(src)
		}

		var child Genome
		p2 := -1
		if src.Float64() < crossoverRate {
			child = c1.Genome.Reproduce(c2.Genome)
			p2 = idx2
		} else {
			child = c1.Genome.Clone()
		}
		out = append(out, Wrapper{Genome: child, Parent1: idx1, Parent2: p2})
	}
	return out
}
