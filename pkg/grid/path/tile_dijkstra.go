package path

import (
	"log/slog"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/slice"
)

// TileDijkstra searches shortest paths on a tile grid with 8-connected moves.
// By default it runs plain Dijkstra; SetUseHeuristic(true) turns it into A*.
// Implements the Navigator interface.
//
// The navigator only holds configuration and an immutable grid: every call of
// ComputePath allocates its own query state, so one navigator may serve
// concurrent searches.
type TileDijkstra struct {
	g *grid.Grid

	useHeuristic      bool      // flag indicating if the heuristic (remaining distance) should be used (A*)
	heuristicFunc     Heuristic // estimate used when useHeuristic is set
	recordSearchSpace bool      // flag indicating if the expanded tiles should be returned with the result

	debugLevel int // debug level for logging purpose
	logger     *slog.Logger
}

// Create a new Dijkstra instance for the given grid
func NewTileDijkstra(g *grid.Grid) *TileDijkstra {
	return &TileDijkstra{
		g:             g,
		heuristicFunc: OctileHeuristic,
		logger:        slog.Default().With(slog.String("component", "tile_dijkstra")),
	}
}

// Create a new A* instance for the given grid
func NewTileAStar(g *grid.Grid) *TileDijkstra {
	d := NewTileDijkstra(g)
	d.SetUseHeuristic(true)
	return d
}

func (d *TileDijkstra) SetUseHeuristic(useHeuristic bool) { d.useHeuristic = useHeuristic }

// SetHeuristic replaces the estimate used in A* mode
func (d *TileDijkstra) SetHeuristic(h Heuristic) { d.heuristicFunc = h }

func (d *TileDijkstra) SetRecordSearchSpace(record bool) { d.recordSearchSpace = record }

// Set the debug level: 1 logs each search, 2 additionally every expanded node
func (d *TileDijkstra) SetDebugLevel(level int) { d.debugLevel = level }

func (d *TileDijkstra) SetLogger(logger *slog.Logger) { d.logger = logger }

func (d *TileDijkstra) GetGrid() *grid.Grid { return d.g }

func (d *TileDijkstra) heuristic(from, to grid.Point) int {
	if !d.useHeuristic {
		return 0
	}
	return d.heuristicFunc(from, to)
}

// ComputePath searches the cheapest path from origin to destination.
// Out-of-bounds coordinates, a blocked destination and origin == destination
// are not errors: they produce an empty path with the matching Outcome.
// Only invalid step limits are reported as an error.
func (d *TileDijkstra) ComputePath(origin, destination grid.Point, limits StepLimits) (Result, error) {
	result := Result{Origin: origin, Destination: destination, Path: make([]grid.Point, 0)}
	if err := limits.Validate(); err != nil {
		return result, err
	}

	switch {
	case !d.g.Contains(int(origin.X), int(origin.Y)) || !d.g.Contains(int(destination.X), int(destination.Y)):
		result.Outcome = OutOfBounds
		return result, nil
	case d.g.Tile(int(destination.X), int(destination.Y)) == grid.Blocked:
		result.Outcome = BlockedDestination
		return result, nil
	case origin == destination:
		result.Outcome = Trivial
		return result, nil
	}

	if d.debugLevel >= 1 {
		d.logger.Info("new search", slog.String("origin", origin.String()), slog.String("destination", destination.String()),
			slog.Bool("heuristic", d.useHeuristic))
	}

	s := newQueryState(d.g)
	s.discover(origin, sentinelParent, 0, d.heuristic(origin, destination))

	goal, found := NodeId(0), false
	for s.open.Len() > 0 {
		candidate := s.open.Peek()
		if s.x[candidate] == destination.X && s.y[candidate] == destination.Y {
			// examined, not expanded: the goal stays in the open set
			goal, found = candidate, true
			break
		}

		current := s.settle()
		if d.debugLevel >= 2 {
			d.logger.Debug("settling node", slog.Any("node", current), slog.String("tile", s.point(current).String()),
				slog.Int("g", s.g[current]), slog.Int("f", s.f[current]))
		}
		if d.recordSearchSpace {
			result.SearchSpace = append(result.SearchSpace, s.point(current))
		}
		d.expand(s, current, destination, limits)
	}

	result.KPIs = s.kpis
	if !found {
		if d.debugLevel >= 1 {
			d.logger.Info("finished search, no path found", slog.Int("expanded", s.kpis.PqPops))
		}
		result.Outcome = Unreachable
		return result, nil
	}

	result.Outcome = Found
	result.Path = s.reconstructPath(goal)
	result.Cost = s.g[goal]
	if d.debugLevel >= 1 {
		d.logger.Info("found path", slog.Int("cost", result.Cost), slog.Int("steps", len(result.Path)),
			slog.Int("expanded", s.kpis.PqPops))
	}
	return result, nil
}

// reconstructPath walks the parent links from the goal back to the origin.
// The origin (node 0) is excluded, the goal included, in traversal order.
func (s *queryState) reconstructPath(goal NodeId) []grid.Point {
	path := make([]grid.Point, 0)
	for nodeId := goal; nodeId != 0; nodeId = s.parent[nodeId] {
		path = append(path, s.point(nodeId))
	}
	// reverse path (to create the correct direction)
	slice.ReverseInPlace(path)
	return path
}
