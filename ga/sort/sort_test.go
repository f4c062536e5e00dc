package sort

import (
	"sort"
	"testing"
)

// points2D is a tiny two-objective domination predicate used by both
// strategy tests (smaller is better on each axis).
func points2D(pts [][2]float64) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := pts[i], pts[j]
		betterOrEqual := a[0] <= b[0] && a[1] <= b[1]
		strictlyBetter := a[0] < b[0] || a[1] < b[1]
		return betterOrEqual && strictlyBetter
	}
}

func layerMultisets(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		cp := append([]int(nil), l...)
		sort.Ints(cp)
		out[i] = cp
	}
	return out
}

// TestBasicAndCountedAgree covers spec.md §8: "under identical seeds and
// inputs, the three sort strategies produce identical layer
// assignments (orderings inside a layer may differ but the multisets
// must match)".
func TestBasicAndCountedAgree(t *testing.T) {
	pts := [][2]float64{
		{0, 0}, {1, 1}, {0, 2}, {2, 0}, {1, 0.5}, {3, 3}, {0.5, 0.5},
	}
	dominates := points2D(pts)

	basic := layerMultisets(Basic{}.Layers(len(pts), dominates))
	counted := layerMultisets(Counted{}.Layers(len(pts), dominates))

	if len(basic) != len(counted) {
		t.Fatalf("layer counts differ: basic=%d counted=%d", len(basic), len(counted))
	}
	for i := range basic {
		if len(basic[i]) != len(counted[i]) {
			t.Fatalf("layer %d size differs: basic=%v counted=%v", i, basic[i], counted[i])
		}
		for j := range basic[i] {
			if basic[i][j] != counted[i][j] {
				t.Fatalf("layer %d contents differ: basic=%v counted=%v", i, basic[i], counted[i])
			}
		}
	}
}

// TestLayersPartitionEveryIndex checks that Counted's layering is a
// partition: every index lands in exactly one layer.
func TestLayersPartitionEveryIndex(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 1}, {2, 2}, {0, 3}, {3, 0}}
	dominates := points2D(pts)
	layers := Counted{}.Layers(len(pts), dominates)

	seen := make(map[int]bool)
	for _, layer := range layers {
		for _, idx := range layer {
			if seen[idx] {
				t.Fatalf("index %d appears in more than one layer", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != len(pts) {
		t.Fatalf("partitioned %d of %d indices", len(seen), len(pts))
	}
}

func TestChooseSelectsCountedByDefault(t *testing.T) {
	s := Choose(128, nil, false)
	if _, ok := s.(*Counted); !ok {
		t.Errorf("Choose(128, nil, false) = %T, want *Counted", s)
	}
}

func TestChooseSelectsOffloadedWithAccelerator(t *testing.T) {
	s := Choose(128, stubAccelerator{}, true)
	if _, ok := s.(*Offloaded); !ok {
		t.Errorf("Choose with accelerator = %T, want *Offloaded", s)
	}
}

type stubAccelerator struct{}

func (stubAccelerator) PairwiseDominance(points [][]float64) ([][]bool, error) { return nil, nil }
