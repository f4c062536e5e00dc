package ga

// Population is an ordered, fixed-size sequence of Wrappers (spec.md §3).
// After the sort step, index 0 holds the (or a) best genome.
type Population []Wrapper

// Clone produces an independent slice of the same wrappers (not deep
// genome copies), for a caller that needs to freeze a view of the
// population order.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	copy(out, p)
	return out
}

// Genomes extracts the bare genome slice, in population order.
func (p Population) Genomes() []Genome {
	out := make([]Genome, len(p))
	for i, w := range p {
		out[i] = w.Genome
	}
	return out
}
