package ga

import (
	"io"

	"github.com/kestrelga/distga/ga/rng"
)

// Factory is the problem plug-in contract (spec.md §4.1). A concrete
// factory embeds SingleObjectiveDefaults or MultiObjectiveDefaults
// (SPEC_FULL.md §9: composition replaces the source's virtual
// inheritance of a shared base). The defaults supply the generational
// policy, lifecycle and GA-parameter methods; the concrete factory
// supplies CreateNewGenome, CreateParamsInstance, CurrentParameters,
// Init, the Maximal*Bytes bounds, and the GenomeReader methods, and
// overrides whichever policy hooks it wants to specialize.
type Factory interface {
	GenomeReader

	// NumberOfFitnessComponents reports K, the number of cached fitness
	// scalars each genome carries (>= 1).
	NumberOfFitnessComponents() int

	// CreateNewGenome returns a randomly initialized genome.
	CreateNewGenome() Genome

	// CreateParamsInstance returns a zero-valued FactoryParams the
	// caller can Read into.
	CreateParamsInstance() FactoryParams

	// CurrentParameters returns the factory's own copy of its params.
	CurrentParameters() FactoryParams

	// Init copies params into the factory (the caller may free its own
	// copy immediately after Init returns).
	Init(p FactoryParams) error

	// SetGAParams installs the engine's copy of the GA control scalars
	// (spec.md §4.6 Init: "install ... a copy of GA parameters"). GAParams
	// returns the last installed copy.
	SetGAParams(p Params)
	GAParams() Params

	// MaximalGenomeBytes and MaximalFitnessBytes upper-bound serialized
	// sizes, used only to pre-size distribution buffers.
	MaximalGenomeBytes() int
	MaximalFitnessBytes() int

	// WriteCommonGenerationInfo/ReadCommonGenerationInfo carry optional
	// per-generation side data broadcast to helpers ahead of a batch.
	WriteCommonGenerationInfo(w io.Writer) error
	ReadCommonGenerationInfo(r io.Reader) error

	// Sort orders pop in place per the factory's policy (natural order
	// for single-objective, non-dominated layering for multi-objective).
	Sort(pop Population)

	// UpdateBestGenomes folds pop into the best-set the factory owns.
	UpdateBestGenomes(pop Population)

	// Breed produces the next generation from the (already sorted) pop.
	Breed(pop Population, src rng.Source) Population

	// IntroduceMutations mutates newPop in place, respecting elitism.
	IntroduceMutations(newPop Population, src rng.Source)

	// SelectPreferredGenome returns one genome from the best-set.
	SelectPreferredGenome() Genome

	// BestGenomes returns a read-only view of the current best-set.
	BestGenomes() []Genome

	// Lifecycle callbacks (spec.md §4.1, §4.6).
	OnStart() error
	OnStep(gen int) (generationInfoChanged bool, stop bool, err error)
	OnSortedPopulation(pop Population)
	OnStop()
}
