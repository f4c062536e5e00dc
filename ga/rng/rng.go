// Package rng provides the single abstract uniform-[0,1) source the
// engine draws on, plus the rank-biased picker used by selection
// (spec.md §3 "RNG", §4.4 "Rank-biased picker").
package rng

import (
	"math"
	"math/rand/v2"
	"os"
	"time"
)

// Source is the one abstraction the engine depends on: a uniform draw on
// [0, 1). Any generator satisfying it (PCG, ChaCha8, a recorded replay
// for tests) can drive the engine.
type Source interface {
	Float64() float64
}

// PCG wraps math/rand/v2's PCG generator as a Source, seeded explicitly
// or from process entropy when the caller passes seed 0 — grounded on
// genetic/engine.go's NewEngine seeding idiom (seed==0 means "pick one").
type PCG struct {
	r *rand.Rand
}

// NewPCG returns a seeded PCG source. A zero seed is replaced by a mix of
// pid, wall clock, and math/rand/v2's own entropy pool (design note §9:
// "pid XOR time XOR entropy").
func NewPCG(seed uint64) *PCG {
	if seed == 0 {
		seed = uint64(os.Getpid()) ^ uint64(time.Now().UnixNano()) ^ rand.Uint64()
	}
	return &PCG{r: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (p *PCG) Float64() float64 { return p.r.Float64() }

// IntN returns a uniform integer in [0, n). Breeding does not call it:
// it only sees the Source interface and draws sub-indices from Float64.
func (p *PCG) IntN(n int) int { return p.r.IntN(n) }

// PickRankBiased draws a rank-biased index into [0, n) with selection
// pressure beta (spec.md §4.4):
//
//	pick = floor((1 - u^(1/(1+beta))) * n), clamped to [0, n-1]
//
// beta == 0 gives a uniform pick; larger beta sharply favors low indices
// (the fitter end of a sorted population or layer list).
func PickRankBiased(src Source, beta float64, n int) int {
	if n <= 0 {
		return 0
	}
	u := src.Float64()
	exp := 1.0 / (1.0 + beta)
	pick := int(math.Floor((1 - math.Pow(u, exp)) * float64(n)))
	if pick < 0 {
		pick = 0
	}
	if pick >= n {
		pick = n - 1
	}
	return pick
}
