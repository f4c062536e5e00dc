package ga

// Dominates reports whether a dominates b under K fitness components
// (spec.md §4.4, glossary "Domination"): a is no worse than b on every
// component and strictly better on at least one. IsFitterThan is
// single-component by contract (SetActiveFitnessComponent selects which
// scalar it compares), so domination is assembled component-by-component:
// "a no worse than b on component i" is expressed as "!b.IsFitterThan(a)"
// once both genomes have that component active.
func Dominates(a, b Genome, k int) bool {
	strictlyBetterOnSome := false
	for i := 0; i < k; i++ {
		a.SetActiveFitnessComponent(i)
		b.SetActiveFitnessComponent(i)
		if b.IsFitterThan(a) {
			return false // a is strictly worse on this component
		}
		if a.IsFitterThan(b) {
			strictlyBetterOnSome = true
		}
	}
	return strictlyBetterOnSome
}

// EqualFitness reports whether neither genome is fitter than the other
// on any of K components — the best-set dedup equality used by
// MultiObjectiveDefaults.UpdateBestGenomes (spec.md §4.4, §9 open
// question: this is fitness equality, not genome equality, a documented
// policy trade-off).
func EqualFitness(a, b Genome, k int) bool {
	for i := 0; i < k; i++ {
		a.SetActiveFitnessComponent(i)
		b.SetActiveFitnessComponent(i)
		if a.IsFitterThan(b) || b.IsFitterThan(a) {
			return false
		}
	}
	return true
}
