package path

import "github.com/natevvv/tile-pathfinding/pkg/grid"

// step costs of the tile grid; the diagonal approximates 10*sqrt(2)
const (
	costOrthogonal = 10
	costDiagonal   = 14
)

// Heuristic estimates the remaining cost from a tile to the destination
type Heuristic func(from, to grid.Point) int

func delta(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// OctileHeuristic is the exact cost of an unobstructed 10/14 path.
// It never overestimates and is consistent, so A* stays optimal.
func OctileHeuristic(from, to grid.Point) int {
	dx, dy := delta(from.X, to.X), delta(from.Y, to.Y)
	return costOrthogonal*max(dx, dy) + (costDiagonal-costOrthogonal)*min(dx, dy)
}

// ManhattanHeuristic is the coordinate difference scaled by the orthogonal cost.
// It overestimates diagonal moves (20 against 14), so paths may be suboptimal.
func ManhattanHeuristic(from, to grid.Point) int {
	return costOrthogonal * (delta(from.X, to.X) + delta(from.Y, to.Y))
}

// ZeroHeuristic turns A* into plain Dijkstra
func ZeroHeuristic(from, to grid.Point) int { return 0 }
