// Package sort provides the non-dominated layering strategies used by
// multi-objective breeding (spec.md §4.4). All strategies are defined
// purely over an index domain [0, n) and a caller-supplied domination
// predicate, so they have no dependency on the Genome/Factory types —
// ga.MultiObjectiveDefaults builds the predicate and owns the result.
package sort

// Strategy partitions n items into ordered antichains ("layers"): L0 is
// the set of items dominated by no one; Li+1 is the antichain among
// items dominated only by members of L0..Li. dominates(i, j) reports
// whether item i dominates item j. All conforming strategies must
// produce the same multiset-per-layer result for the same input
// (spec.md §8): orderings inside a layer may differ, but which items
// land in which layer must not.
type Strategy interface {
	Layers(n int, dominates func(i, j int) bool) [][]int
}

// Choose selects a strategy per spec.md §4.4's condition table: Counted
// for populations below 65536 (always, in this module — no
// populations anywhere near 65536 are expected, but the guard is kept
// literal to the spec), Basic otherwise, with Offloaded available only
// when accel is non-nil and the factory's fitness is floating point.
func Choose(populationSize int, accel Accelerator, floatingPointFitness bool) Strategy {
	if accel != nil && floatingPointFitness {
		return &Offloaded{Accel: accel}
	}
	if populationSize < 65536 {
		return &Counted{}
	}
	return &Basic{}
}
