package slice

import (
	"reflect"
	"testing"
)

func TestReverseInPlace(t *testing.T) {
	cases := [][]int{{}, {1}, {1, 2}, {1, 2, 3, 4, 5}}
	want := [][]int{{}, {1}, {2, 1}, {5, 4, 3, 2, 1}}
	for i, c := range cases {
		ReverseInPlace(c)
		if !reflect.DeepEqual(c, want[i]) {
			t.Errorf("reversed is %v. Should be %v", c, want[i])
		}
	}
}

func TestContains(t *testing.T) {
	s := []string{"astar", "dijkstra"}
	if !Contains(s, "dijkstra") {
		t.Errorf("dijkstra not found")
	}
	if Contains(s, "ch") || Contains(nil, "astar") {
		t.Errorf("found missing value")
	}
}
