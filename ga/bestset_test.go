package ga

import (
	"io"
	"testing"
)

// vecGenome is a minimal K-component genome used only by this package's
// tests: fitness is fixed at construction, so CalculateFitness,
// Reproduce, and Mutate are no-ops/unused here.
type vecGenome struct {
	fitness []float64
	active  int
}

func (v *vecGenome) CalculateFitness() error { return nil }
func (v *vecGenome) IsFitterThan(other Genome) bool {
	return v.fitness[v.active] < other.(*vecGenome).fitness[v.active]
}
func (v *vecGenome) SetActiveFitnessComponent(i int) { v.active = i }
func (v *vecGenome) Reproduce(other Genome) Genome   { return v.Clone() }
func (v *vecGenome) Clone() Genome {
	f := append([]float64(nil), v.fitness...)
	return &vecGenome{fitness: f}
}
func (v *vecGenome) Mutate()                        {}
func (v *vecGenome) DescribeFitness() string        { return "" }
func (v *vecGenome) WriteGenome(w io.Writer) error  { return nil }
func (v *vecGenome) WriteFitness(w io.Writer) error { return nil }

func vec(f ...float64) Genome { return &vecGenome{fitness: f} }

func TestDominates(t *testing.T) {
	a := vec(0, 0)
	b := vec(1, 1)
	if !Dominates(a, b, 2) {
		t.Error("(0,0) should dominate (1,1)")
	}
	if Dominates(b, a, 2) {
		t.Error("(1,1) should not dominate (0,0)")
	}
	if Dominates(vec(0, 1), vec(1, 0), 2) {
		t.Error("(0,1) and (1,0) are mutually non-dominating")
	}
}

// TestUpdateBestSetIsAntichain covers spec.md §8: "after
// updateBestGenomes, the best-set is an antichain: no member dominates
// another."
func TestUpdateBestSetIsAntichain(t *testing.T) {
	candidates := []Genome{vec(0, 3), vec(1, 2), vec(2, 1), vec(3, 0), vec(5, 5)}
	best := UpdateBestSet(nil, candidates, 2)

	if len(best) != 4 {
		t.Fatalf("expected the dominated (5,5) point to be excluded, got %d members", len(best))
	}
	for i, a := range best {
		for j, b := range best {
			if i == j {
				continue
			}
			if Dominates(a, b, 2) {
				t.Errorf("member %d dominates member %d; best-set is not an antichain", i, j)
			}
		}
	}
}

func TestUpdateBestSetDedupsEqualFitness(t *testing.T) {
	best := UpdateBestSet(nil, []Genome{vec(1, 1), vec(1, 1)}, 2)
	if len(best) != 1 {
		t.Errorf("expected fitness-equal duplicates to collapse to one survivor, got %d", len(best))
	}
}

func TestUpdateBestSetMergesAcrossGenerations(t *testing.T) {
	gen1 := UpdateBestSet(nil, []Genome{vec(0, 2), vec(2, 0)}, 2)
	gen2 := UpdateBestSet(gen1, []Genome{vec(1, 1)}, 2)
	// (1,1) does not dominate either existing member, so all three
	// survive as an antichain.
	if len(gen2) != 3 {
		t.Errorf("expected the best-set to carry forward non-dominated members, got %d", len(gen2))
	}
}
