package sort

// Counted precomputes all O(N^2) pairwise domination results once, then
// peels layers in O(N) by tracking each item's remaining domination
// count — the classic fast non-dominated sort, and per spec.md §4.4 the
// default strategy for populations below 65536.
type Counted struct{}

func (Counted) Layers(n int, dominates func(i, j int) bool) [][]int {
	dominatedBy := make([][]int, n) // dominatedBy[i] = items i dominates
	count := make([]int, n)         // count[i] = number of items dominating i

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(i, j) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(j, i) {
				count[i]++
			}
		}
	}

	var layers [][]int
	current := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if count[i] == 0 {
			current = append(current, i)
		}
	}

	for len(current) > 0 {
		layers = append(layers, current)
		var next []int
		for _, i := range current {
			for _, j := range dominatedBy[i] {
				count[j]--
				if count[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return layers
}
