package ga

import (
	"context"
	"io"
	"testing"

	"github.com/kestrelga/distga/ga/rng"
)

// scalarGenome minimizes x^2; used only by engine tests.
type scalarGenome struct {
	x       float64
	fitness float64
	src     rng.Source
}

func (g *scalarGenome) CalculateFitness() error { g.fitness = g.x * g.x; return nil }
func (g *scalarGenome) IsFitterThan(other Genome) bool {
	return g.fitness < other.(*scalarGenome).fitness
}
func (g *scalarGenome) SetActiveFitnessComponent(int) {}
func (g *scalarGenome) Reproduce(other Genome) Genome {
	o := other.(*scalarGenome)
	t := g.src.Float64()
	return &scalarGenome{x: g.x + t*(o.x-g.x), src: g.src}
}
func (g *scalarGenome) Clone() Genome {
	c := *g
	return &c
}
func (g *scalarGenome) Mutate()                        { g.x += (g.src.Float64()*2 - 1) * 0.1 }
func (g *scalarGenome) DescribeFitness() string        { return "" }
func (g *scalarGenome) WriteGenome(w io.Writer) error  { return nil }
func (g *scalarGenome) WriteFitness(w io.Writer) error { return nil }

type scalarParams struct{}

func (scalarParams) Write(w io.Writer) error { return nil }
func (*scalarParams) Read(r io.Reader) error { return nil }

type scalarFactory struct {
	SingleObjectiveDefaults
	src rng.Source
}

func newScalarFactory(seed uint64) *scalarFactory {
	return &scalarFactory{src: rng.NewPCG(seed)}
}

func (f *scalarFactory) CreateNewGenome() Genome {
	return &scalarGenome{x: f.src.Float64()*20 - 10, src: f.src}
}
func (f *scalarFactory) CreateParamsInstance() FactoryParams { return &scalarParams{} }
func (f *scalarFactory) CurrentParameters() FactoryParams    { return &scalarParams{} }
func (f *scalarFactory) Init(FactoryParams) error            { return nil }
func (f *scalarFactory) MaximalGenomeBytes() int             { return 8 }
func (f *scalarFactory) MaximalFitnessBytes() int            { return 8 }
func (f *scalarFactory) ReadGenome(r io.Reader) (Genome, error) {
	return &scalarGenome{src: f.src}, nil
}
func (f *scalarFactory) ReadGenomeFitness(r io.Reader, g Genome) error { return nil }

func TestEnginePopulationSizeInvariant(t *testing.T) {
	factory := newScalarFactory(1)
	engine, err := New(factory, 20, DefaultParams(), rng.NewPCG(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gensSeen := 0
	engine.StatsHook = func(s RunStats) {
		gensSeen++
		if s.PopulationSz != 20 {
			t.Errorf("generation %d: population size = %d, want 20", s.Generation, s.PopulationSz)
		}
	}
	if err := engine.Run(context.Background(), 15); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gensSeen != 15 {
		t.Errorf("observed %d generations, want 15", gensSeen)
	}
	if engine.PopulationSize() != 20 {
		t.Errorf("final population size = %d, want 20", engine.PopulationSize())
	}
}

func TestEngineRejectsUndersizedPopulation(t *testing.T) {
	factory := newScalarFactory(1)
	if _, err := New(factory, 4, DefaultParams(), rng.NewPCG(1)); err == nil {
		t.Error("expected an error for population size below the minimum")
	}
}

func TestEngineConvergesTowardOrigin(t *testing.T) {
	factory := newScalarFactory(42)
	engine, err := New(factory, 64, DefaultParams(), rng.NewPCG(42))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := engine.Run(context.Background(), 200); err != nil {
		t.Fatalf("Run: %v", err)
	}
	best := engine.BestGenomes()
	if len(best) != 1 {
		t.Fatalf("expected exactly one best genome, got %d", len(best))
	}
	x := best[0].(*scalarGenome).x
	if x < -1 || x > 1 {
		t.Errorf("expected convergence near 0, got x=%v", x)
	}
}
