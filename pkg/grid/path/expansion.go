package path

import "github.com/natevvv/tile-pathfinding/pkg/grid"

// Neighbor offsets in expansion order: W, N, E, S, then NW, SW, NE, SE
var neighborOffsets = [8][2]int{
	{-1, 0}, {0, -1}, {1, 0}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// expand offers all eight neighbors of the current node to the open set
func (d *TileDijkstra) expand(s *queryState, current NodeId, destination grid.Point, limits StepLimits) {
	cx, cy := int(s.x[current]), int(s.y[current])

	for _, offset := range neighborOffsets {
		s.kpis.RelaxationAttempts++
		nx, ny := cx+offset[0], cy+offset[1]

		if !d.admissible(s, current, nx, ny, destination, limits) {
			continue
		}

		stepCost := costOrthogonal
		if offset[0] != 0 && offset[1] != 0 {
			stepCost = costDiagonal
		}
		tentativeG := s.g[current] + stepCost
		tile := s.tileIndex(nx, ny)

		if s.status[tile] == open {
			neighbor := s.tileNode[tile]
			if tentativeG < s.g[neighbor] {
				s.improve(neighbor, current, tentativeG)
				s.kpis.RelaxedEdges++
			}
			continue
		}

		p := grid.Point{X: uint16(nx), Y: uint16(ny)}
		s.discover(p, current, tentativeG, d.heuristic(p, destination))
		s.kpis.RelaxedEdges++
	}
}

// admissible applies the expansion rules, in order, to the neighbor (nx,ny) of the current node
func (d *TileDijkstra) admissible(s *queryState, current NodeId, nx, ny int, destination grid.Point, limits StepLimits) bool {
	g := d.g
	cx, cy := int(s.x[current]), int(s.y[current])

	// the neighbor must lie on the map
	if !g.Contains(nx, ny) {
		return false
	}
	tile := g.Index(nx, ny)

	// expanded tiles are final
	if s.status[tile] == closed {
		return false
	}

	// blocked tiles are never entered
	neighborTile := g.TileAt(tile)
	if neighborTile == grid.Blocked {
		return false
	}

	// interactive tiles are only entered as the destination
	if neighborTile == grid.Interactive && (nx != int(destination.X) || ny != int(destination.Y)) {
		return false
	}

	// the step must stay within the jump and drop limits
	if !limits.allows(g.ElevationAt(g.Index(cx, cy)), g.ElevationAt(tile)) {
		return false
	}

	// no immediate backtracking to the parent tile; the origin has no parent
	if current != 0 {
		parent := s.parent[current]
		if int(s.x[parent]) == nx && int(s.y[parent]) == ny {
			return false
		}
	}

	// diagonal steps may not cut a blocked or interactive corner
	if nx != cx && ny != cy {
		if blocksCorner(g.Tile(nx, cy)) || blocksCorner(g.Tile(cx, ny)) {
			return false
		}
	}

	return true
}

func blocksCorner(t grid.Tile) bool {
	return t == grid.Blocked || t == grid.Interactive
}
