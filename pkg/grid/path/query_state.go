package path

import (
	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/queue"
)

type NodeId = queue.NodeId

// sentinelParent is the parent of the origin node. The origin itself gets id 0,
// so reaching id 0 while walking parents means reaching the origin.
const sentinelParent NodeId = 0

type tileStatus uint8

const (
	unseen tileStatus = iota
	open
	closed
)

// queryState is the working memory of a single search.
// Node data lives in parallel arrays indexed by node id; tile data in arrays
// indexed by the row-major tile index. Nothing in here is shared between searches.
type queryState struct {
	width int

	x      []uint16 // tile coordinates of the node
	y      []uint16
	g      []int    // accumulated cost from the origin
	h      []int    // estimated remaining cost
	f      []int    // g + h, the heap priority
	parent []NodeId // predecessor on the best known path

	status   []tileStatus // unseen/open/closed per tile
	tileNode []NodeId     // node id of a discovered tile

	nextId NodeId
	open   *queue.NodeHeap
	kpis   SearchKPIs
}

func newQueryState(g *grid.Grid) *queryState {
	size := g.TileCount()
	s := &queryState{
		width:    g.Width(),
		x:        make([]uint16, size),
		y:        make([]uint16, size),
		g:        make([]int, size),
		h:        make([]int, size),
		f:        make([]int, size),
		parent:   make([]NodeId, size),
		status:   make([]tileStatus, size),
		tileNode: make([]NodeId, size),
	}
	s.open = queue.NewNodeHeap(size, s)
	return s
}

// Priority implements queue.Prioritizer
func (s *queryState) Priority(id NodeId) int { return s.f[id] }

func (s *queryState) point(id NodeId) grid.Point {
	return grid.Point{X: s.x[id], Y: s.y[id]}
}

func (s *queryState) tileIndex(x, y int) int { return y*s.width + x }

// discover assigns the next node id to an unseen tile, marks it open and queues it
func (s *queryState) discover(p grid.Point, parent NodeId, g, h int) NodeId {
	id := s.nextId
	s.nextId++

	s.x[id] = p.X
	s.y[id] = p.Y
	s.g[id] = g
	s.h[id] = h
	s.f[id] = g + h
	s.parent[id] = parent

	tile := s.tileIndex(int(p.X), int(p.Y))
	s.status[tile] = open
	s.tileNode[tile] = id

	s.open.Push(id)
	s.kpis.DiscoveredNodes++
	s.kpis.PqUpdates++
	return id
}

// improve lowers the cost of an open node reached through a cheaper parent
func (s *queryState) improve(id, parent NodeId, g int) {
	s.parent[id] = parent
	s.g[id] = g
	s.f[id] = g + s.h[id]
	s.open.Fix(id)
	s.kpis.PqUpdates++
}

// settle removes the cheapest node from the open set and closes its tile
func (s *queryState) settle() NodeId {
	id := s.open.Pop()
	s.status[s.tileIndex(int(s.x[id]), int(s.y[id]))] = closed
	s.kpis.PqPops++
	return id
}
