package sort

// Basic is the always-available O(L*N^2) strategy: each layer is found
// by scanning every remaining item against every other remaining item.
type Basic struct{}

func (Basic) Layers(n int, dominates func(i, j int) bool) [][]int {
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	var layers [][]int
	for len(remaining) > 0 {
		var layer []int
		var next []int
		for _, a := range remaining {
			dominated := false
			for _, b := range remaining {
				if a == b {
					continue
				}
				if dominates(b, a) {
					dominated = true
					break
				}
			}
			if dominated {
				next = append(next, a)
			} else {
				layer = append(layer, a)
			}
		}
		layers = append(layers, layer)
		remaining = next
	}
	return layers
}
