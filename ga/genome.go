package ga

import "io"

// Genome is the capability set the engine needs from a problem-specific
// candidate solution (spec.md §3, §4.2). Fitness storage is private to
// the implementation; the engine only ever asks for comparisons and
// descriptions.
type Genome interface {
	// CalculateFitness evaluates and caches the genome's fitness. It is
	// the one operation the distribution layer is permitted to run on a
	// remote helper instead of locally.
	CalculateFitness() error

	// IsFitterThan is a strict partial order under the active fitness
	// component in multi-objective mode, and a strict total order in
	// single-objective mode.
	IsFitterThan(other Genome) bool

	// SetActiveFitnessComponent selects which of the K cached fitness
	// scalars IsFitterThan compares. Single-objective genomes ignore it
	// beyond component 0.
	SetActiveFitnessComponent(i int)

	// Reproduce returns a new genome whose state is a stateless function
	// of both parents plus whatever RNG the genome was constructed with.
	Reproduce(other Genome) Genome

	// Clone copies both parameters and any cached fitness — required
	// because the best-set stores independent clones.
	Clone() Genome

	// Mutate perturbs the genome in place. May be a no-op.
	Mutate()

	// DescribeFitness renders the cached fitness as text for reporting.
	DescribeFitness() string

	// WriteGenome and WriteFitness serialize this genome's parameters
	// and cached fitness respectively, for the wire protocol and for
	// best-set round-tripping (spec.md §6, §8 "clone round-trips").
	WriteGenome(w io.Writer) error
	WriteFitness(w io.Writer) error
}

// GenomeReader is implemented by a Factory to decode a genome previously
// written with Genome.WriteGenome/WriteFitness. It is a Factory method,
// not a Genome method, because decoding has to produce a new instance
// and the genome type itself may not be default-constructible.
type GenomeReader interface {
	ReadGenome(r io.Reader) (Genome, error)
	ReadGenomeFitness(r io.Reader, g Genome) error
}
