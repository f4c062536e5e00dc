package rng

import "testing"

// fixedSource returns a constant draw; used to probe PickRankBiased at
// the extremes of its input range.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestPickRankBiasedBounds(t *testing.T) {
	tests := []struct {
		name string
		u    float64
		beta float64
		n    int
	}{
		{"u=0 lowest beta=0", 0, 0, 10},
		{"u close to 1 beta=0", 0.999999, 0, 10},
		{"u=0 high beta", 0, 5, 100},
		{"u close to 1 high beta", 0.999999, 5, 100},
		{"single element", 0.5, 2.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickRankBiased(fixedSource(tt.u), tt.beta, tt.n)
			if got < 0 || got >= tt.n {
				t.Errorf("PickRankBiased(%v, %v, %v) = %d, want in [0, %d)", tt.u, tt.beta, tt.n, got, tt.n)
			}
		})
	}
}

func TestPickRankBiasedFavorsLowIndices(t *testing.T) {
	// With high beta and a fixed low u, the pick should land near the
	// front of the range (spec.md §4.4 "large beta sharply favors low
	// indices").
	got := PickRankBiased(fixedSource(0.1), 10, 1000)
	if got > 200 {
		t.Errorf("expected a low-index pick under high selection pressure, got %d", got)
	}
}

func TestNewPCGZeroSeedDiffers(t *testing.T) {
	a := NewPCG(0)
	b := NewPCG(0)
	// Zero-seed sources mix in process entropy; two instances should not
	// produce the same first draw (design note §9 "pid XOR time XOR
	// entropy").
	if a.Float64() == b.Float64() {
		t.Skip("extremely unlikely collision; not a correctness failure")
	}
}
