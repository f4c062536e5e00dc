package ga

import "testing"

func TestInbred(t *testing.T) {
	tests := []struct {
		name string
		a, b Wrapper
		want bool
	}{
		{"both fresh", Wrapper{Parent1: -1, Parent2: -1}, Wrapper{Parent1: -1, Parent2: -1}, false},
		{"a fresh", Wrapper{Parent1: -1}, Wrapper{Parent1: 2, Parent2: 3}, false},
		{"share parent1/parent1", Wrapper{Parent1: 1, Parent2: -1}, Wrapper{Parent1: 1, Parent2: -1}, true},
		{"a1 equals b2", Wrapper{Parent1: 4, Parent2: -1}, Wrapper{Parent1: 9, Parent2: 4}, true},
		{"a2 equals b1", Wrapper{Parent1: 1, Parent2: 4}, Wrapper{Parent1: 4, Parent2: 9}, true},
		{"a2 equals b2 both set", Wrapper{Parent1: 1, Parent2: 4}, Wrapper{Parent1: 9, Parent2: 4}, true},
		{"disjoint lineage", Wrapper{Parent1: 1, Parent2: 2}, Wrapper{Parent1: 3, Parent2: 4}, false},
		{"clone mode parent2 -1 no clash", Wrapper{Parent1: 1, Parent2: -1}, Wrapper{Parent1: 2, Parent2: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inbred(tt.a, tt.b); got != tt.want {
				t.Errorf("inbred(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
