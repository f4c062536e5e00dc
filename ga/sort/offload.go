package sort

// Accelerator is the contract an optional offload backend must satisfy
// to run non-dominated sorting's O(N^2) comparison matrix on something
// other than the CPU (a GPU, a SIMD batch kernel). spec.md §2 lists it
// as "optional"; this module ships no concrete accelerator (nothing in
// the corpus this was grounded on provides one — see DESIGN.md), so
// Choose() never selects Offloaded unless a caller supplies one.
type Accelerator interface {
	// PairwiseDominance computes the dominance matrix for n points, each
	// with the given float64 fitness components, returning dom[i][j] ==
	// true iff point i dominates point j.
	PairwiseDominance(points [][]float64) (dom [][]bool, err error)
}

// Offloaded delegates the O(N^2) pairwise comparison to Accel and then
// peels layers the same way Counted does, in-process, from the returned
// matrix.
type Offloaded struct {
	Accel Accelerator

	// Points supplies the floating-point fitness vectors for the current
	// population in index order. Nothing in this module fills it:
	// ga.MultiObjectiveDefaults.Sort calls Layers without setting Points.
	Points [][]float64
}

func (o *Offloaded) Layers(n int, dominates func(i, j int) bool) [][]int {
	dom, err := o.Accel.PairwiseDominance(o.Points)
	if err != nil {
		// Fall back to the always-correct in-process predicate rather
		// than fail a generation outright over an accelerator hiccup.
		return (Counted{}).Layers(n, dominates)
	}
	return (Counted{}).Layers(n, func(i, j int) bool { return dom[i][j] })
}
