package ga

import (
	"io"

	"github.com/kestrelga/distga/ga/rng"
	gasort "github.com/kestrelga/distga/ga/sort"
	"github.com/kestrelga/distga/parameter"
)

// MultiObjectiveDefaults implements the generational policy hooks of
// spec.md §4.4: non-dominated sorting, best-set maintenance, and
// layer-aware breeding. A concrete multi-objective factory embeds this
// value (built with NewMultiObjectiveDefaults, which fixes
// NumberOfFitnessComponents) and supplies CreateNewGenome/
// CreateParamsInstance/Init/serialization itself.
type MultiObjectiveDefaults struct {
	// Strategy selects which non-dominated sorting implementation Sort
	// uses; nil defaults to Counted, the documented best default
	// (spec.md §9). Set explicitly to exercise Basic/Offloaded.
	Strategy gasort.Strategy

	// MaxGenerations, if positive, makes OnStep request a stop once the
	// generation counter reaches it (spec.md §8 scenario 3's "200
	// generations" run length is a factory-level budget, not a wire
	// field). Zero runs until the caller cancels the engine's context.
	MaxGenerations int

	components int
	gaParams   Params
	best       []Genome

	// layerSizes records each L_i's size from the most recent Sort call,
	// in population order, so Breed can reconstruct "orderedSets"
	// (spec.md §4.4) without re-running domination.
	layerSizes []int

	// lastEliteCount records how many head slots Breed pinned as pure
	// elitism copies (not counting best-pin copies, which mutate) so
	// IntroduceMutations can skip exactly those (spec.md §4.4: "every
	// newly bred slot past the elitism offset is mutated").
	lastEliteCount int
}

// NewMultiObjectiveDefaults constructs defaults for a factory reporting
// k fitness components.
func NewMultiObjectiveDefaults(k int) MultiObjectiveDefaults {
	return MultiObjectiveDefaults{components: k}
}

func (d *MultiObjectiveDefaults) NumberOfFitnessComponents() int { return d.components }

func (d *MultiObjectiveDefaults) SetGAParams(p Params) { d.gaParams = p }
func (d *MultiObjectiveDefaults) GAParams() Params     { return d.gaParams }

func (d *MultiObjectiveDefaults) strategy(n int) gasort.Strategy {
	if d.Strategy != nil {
		return d.Strategy
	}
	return gasort.Choose(n, nil, false)
}

// Sort partitions pop into non-dominated layers and reorders it as
// L0‖L1‖... (spec.md §4.4).
func (d *MultiObjectiveDefaults) Sort(pop Population) {
	n := len(pop)
	k := d.components
	dominates := func(i, j int) bool {
		return Dominates(pop[i].Genome, pop[j].Genome, k)
	}

	layers := d.strategy(n).Layers(n, dominates)

	ordered := make(Population, 0, n)
	sizes := make([]int, 0, len(layers))
	for _, layer := range layers {
		for _, idx := range layer {
			ordered = append(ordered, pop[idx])
		}
		sizes = append(sizes, len(layer))
	}
	copy(pop, ordered)
	d.layerSizes = sizes
}

// layerBounds returns [start, end) offsets into the sorted population
// for each recorded layer.
func (d *MultiObjectiveDefaults) layerBounds() [][2]int {
	bounds := make([][2]int, len(d.layerSizes))
	start := 0
	for i, size := range d.layerSizes {
		bounds[i] = [2]int{start, start + size}
		start += size
	}
	return bounds
}

// UpdateBestGenomes merges the current best-set with L0 and re-filters
// for Pareto-optimality (spec.md §4.4).
func (d *MultiObjectiveDefaults) UpdateBestGenomes(pop Population) {
	if len(d.layerSizes) == 0 || len(pop) == 0 {
		return
	}
	l0 := pop[0:d.layerSizes[0]]
	candidates := make([]Genome, len(l0))
	for i, w := range l0 {
		candidates[i] = w.Genome
	}
	d.best = UpdateBestSet(d.best, candidates, d.components)
}

func (d *MultiObjectiveDefaults) SelectPreferredGenome() Genome {
	if len(d.best) == 0 {
		return nil
	}
	return d.best[0]
}

func (d *MultiObjectiveDefaults) BestGenomes() []Genome {
	out := make([]Genome, len(d.best))
	copy(out, d.best)
	return out
}

// Breed copies up to e = max(1, round(0.005*S)) layer-L0 members for
// elitism and, separately, e more for the best-pin, then fills the
// remainder via the shared breeding body with rank-biased selection
// over layers followed by a uniform sub-index within the chosen layer
// (spec.md §4.4).
func (d *MultiObjectiveDefaults) Breed(pop Population, src rng.Source) Population {
	s := len(pop)
	newPop := make(Population, 0, s)
	d.lastEliteCount = 0

	if len(d.layerSizes) > 0 {
		l0Size := d.layerSizes[0]
		e := gasort.EliteSlotCount(s, parameter.ElitismFraction)
		if e > l0Size {
			e = l0Size
		}

		if d.gaParams.Elitism {
			for i := 0; i < e; i++ {
				newPop = append(newPop, Wrapper{Genome: pop[i].Genome.Clone(), Parent1: i, Parent2: -1})
			}
			d.lastEliteCount = len(newPop)
		}
		if d.gaParams.AlwaysIncludeBest {
			for i := 0; i < e; i++ {
				newPop = append(newPop, Wrapper{Genome: pop[i].Genome.Clone(), Parent1: i, Parent2: -1})
			}
		}
	}

	bounds := d.layerBounds()
	numLayers := len(bounds)
	pick := func(src rng.Source) (Wrapper, int) {
		if numLayers == 0 {
			idx := rng.PickRankBiased(src, d.gaParams.Beta, s)
			return pop[idx], idx
		}
		layer := rng.PickRankBiased(src, d.gaParams.Beta, numLayers)
		lo, hi := bounds[layer][0], bounds[layer][1]
		sub := 0
		if hi > lo+1 {
			sub = int(src.Float64() * float64(hi-lo))
			if sub >= hi-lo {
				sub = hi - lo - 1
			}
		}
		idx := lo + sub
		return pop[idx], idx
	}

	bred := breedFill(s-len(newPop), pick, d.gaParams.CrossoverRate, src)
	newPop = append(newPop, bred...)
	return newPop
}

// IntroduceMutations mutates every slot past the pure-elitism offset
// (spec.md §4.4): best-pin copies and all bred offspring mutate; only
// the elitism block is preserved byte-for-byte.
func (d *MultiObjectiveDefaults) IntroduceMutations(newPop Population, src rng.Source) {
	for i := d.lastEliteCount; i < len(newPop); i++ {
		newPop[i].Genome.Mutate()
	}
}

// Lifecycle no-ops; concrete factories override as needed.
func (d *MultiObjectiveDefaults) OnStart() error { return nil }
func (d *MultiObjectiveDefaults) OnStep(gen int) (bool, bool, error) {
	stop := d.MaxGenerations > 0 && gen+1 >= d.MaxGenerations
	return false, stop, nil
}
func (d *MultiObjectiveDefaults) OnSortedPopulation(pop Population) {}
func (d *MultiObjectiveDefaults) OnStop()                           {}

func (d *MultiObjectiveDefaults) WriteCommonGenerationInfo(w io.Writer) error { return nil }
func (d *MultiObjectiveDefaults) ReadCommonGenerationInfo(r io.Reader) error  { return nil }
