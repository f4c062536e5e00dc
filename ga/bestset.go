package ga

// UpdateBestSet implements the best-set maintainer (spec.md §4.4 "Best-set
// maintenance"): union the current best-set with the newest candidate
// set (MultiObjectiveDefaults passes L0; SingleObjectiveDefaults keeps
// its single best itself and does not call this), keep only
// non-dominated members, deduplicate by fitness equality, and
// return clones of the survivors. The best-set is replaced wholesale
// each generation, never merged in place (spec.md §3).
//
// Deduplicating on fitness equality rather than genome identity is a
// known, documented policy trade-off (spec.md §9 "Open question — best-
// set dedup"): two genuinely distinct genomes with identical fitness
// vectors collapse to one survivor.
func UpdateBestSet(current []Genome, candidates []Genome, k int) []Genome {
	union := make([]Genome, 0, len(current)+len(candidates))
	union = append(union, current...)
	union = append(union, candidates...)

	nonDominated := make([]Genome, 0, len(union))
	for i, g := range union {
		dominated := false
		for j, other := range union {
			if i == j {
				continue
			}
			if Dominates(other, g, k) {
				dominated = true
				break
			}
		}
		if !dominated {
			nonDominated = append(nonDominated, g)
		}
	}

	deduped := make([]Genome, 0, len(nonDominated))
	for _, g := range nonDominated {
		isDup := false
		for _, kept := range deduped {
			if EqualFitness(g, kept, k) {
				isDup = true
				break
			}
		}
		if !isDup {
			deduped = append(deduped, g)
		}
	}

	out := make([]Genome, len(deduped))
	for i, g := range deduped {
		out[i] = g.Clone()
	}
	return out
}
