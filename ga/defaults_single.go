package ga

import (
	"io"
	stdsort "sort"

	"github.com/kestrelga/distga/ga/rng"
)

// SingleObjectiveDefaults implements the generational policy hooks of
// spec.md §4.3. A concrete single-objective factory embeds this value
// and supplies CreateNewGenome/CreateParamsInstance/Init/serialization
// itself (SPEC_FULL.md §9: composition replaces the source's virtual
// inheritance of a common base).
type SingleObjectiveDefaults struct {
	// MaxGenerations, if positive, makes OnStep request a stop once the
	// generation counter reaches it (spec.md §8 scenario 1's "100
	// generations" run length is a factory-level budget, not a wire
	// field). Zero runs until the caller cancels the engine's context.
	MaxGenerations int

	gaParams Params
	best     Genome

	// lastEliteIndex records which slot Breed pinned as the untouched
	// elite, read back by IntroduceMutations so it alone is skipped
	// (spec.md §4.3: "mutate every slot except the elitism slot").
	lastEliteIndex int
}

func (d *SingleObjectiveDefaults) NumberOfFitnessComponents() int { return 1 }

func (d *SingleObjectiveDefaults) SetGAParams(p Params) { d.gaParams = p }
func (d *SingleObjectiveDefaults) GAParams() Params     { return d.gaParams }

// Sort orders pop by the genomes' natural order under IsFitterThan, most
// fit first (spec.md §4.3: "uses the population's natural order").
func (d *SingleObjectiveDefaults) Sort(pop Population) {
	stdsort.SliceStable(pop, func(i, j int) bool {
		return pop[i].Genome.IsFitterThan(pop[j].Genome)
	})
}

// UpdateBestGenomes replaces the best-set with a clone of the new
// population leader whenever it beats (or no best exists yet) the
// current best (spec.md §4.3).
func (d *SingleObjectiveDefaults) UpdateBestGenomes(pop Population) {
	if len(pop) == 0 {
		return
	}
	leader := pop[0].Genome
	if d.best == nil || leader.IsFitterThan(d.best) {
		d.best = leader.Clone()
	}
}

func (d *SingleObjectiveDefaults) SelectPreferredGenome() Genome { return d.best }

func (d *SingleObjectiveDefaults) BestGenomes() []Genome {
	if d.best == nil {
		return nil
	}
	return []Genome{d.best}
}

// Breed writes the elitism and best-pin copies at the head of the next
// generation, then fills the remainder via the shared breeding body
// (spec.md §4.3, §4.5) with rank-biased selection directly over the
// sorted population. Both copies clone pop[0] (the current generation's
// sorted leader) with Parent1=0, matching
// original_source/src/gafactorysingleobjective.cpp's breed(): when both
// flags are on, the leader is copied twice rather than once — the same
// documented double-counting policy recorded in DESIGN.md, not a bug.
func (d *SingleObjectiveDefaults) Breed(pop Population, src rng.Source) Population {
	s := len(pop)
	newPop := make(Population, 0, s)
	d.lastEliteIndex = -1

	if d.gaParams.Elitism && s > 0 {
		newPop = append(newPop, Wrapper{Genome: pop[0].Genome.Clone(), Parent1: 0, Parent2: -1})
		d.lastEliteIndex = 0
	}
	if d.gaParams.AlwaysIncludeBest && s > 0 {
		newPop = append(newPop, Wrapper{Genome: pop[0].Genome.Clone(), Parent1: 0, Parent2: -1})
	}

	pick := func(src rng.Source) (Wrapper, int) {
		idx := rng.PickRankBiased(src, d.gaParams.Beta, s)
		return pop[idx], idx
	}
	bred := breedFill(s-len(newPop), pick, d.gaParams.CrossoverRate, src)
	newPop = append(newPop, bred...)
	return newPop
}

// IntroduceMutations mutates every slot except the pinned elitism slot
// (spec.md §4.3).
func (d *SingleObjectiveDefaults) IntroduceMutations(newPop Population, src rng.Source) {
	for i := range newPop {
		if i == d.lastEliteIndex {
			continue
		}
		newPop[i].Genome.Mutate()
	}
}

// Lifecycle no-ops; concrete factories override as needed.
func (d *SingleObjectiveDefaults) OnStart() error { return nil }
func (d *SingleObjectiveDefaults) OnStep(gen int) (bool, bool, error) {
	stop := d.MaxGenerations > 0 && gen+1 >= d.MaxGenerations
	return false, stop, nil
}
func (d *SingleObjectiveDefaults) OnSortedPopulation(pop Population) {}
func (d *SingleObjectiveDefaults) OnStop()                           {}

// WriteCommonGenerationInfo/ReadCommonGenerationInfo default to no side
// data; override when a problem needs to broadcast per-generation state
// to helpers (spec.md §4.1).
func (d *SingleObjectiveDefaults) WriteCommonGenerationInfo(w io.Writer) error { return nil }
func (d *SingleObjectiveDefaults) ReadCommonGenerationInfo(r io.Reader) error  { return nil }
