package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/grid/path"
	"github.com/natevvv/tile-pathfinding/pkg/slice"
)

var ErrUnknownNavigator = errors.New("unknown navigator")

// Navigators lists the names accepted by SetNavigator
var Navigators = []string{"astar", "dijkstra"}

const defaultNavigator = "astar"

// Router answers path queries on the most recently published grid.
// Every query works on the snapshot that was current when it started, so
// SetGrid never blocks running searches and never changes their result.
type Router struct {
	store *grid.Store

	mu            sync.RWMutex
	navigatorName string

	cache  PathCache
	logger *slog.Logger
}

type Option func(*Router)

// WithNavigator selects the navigator by name, see Navigators
func WithNavigator(name string) Option {
	return func(r *Router) { r.navigatorName = name }
}

// WithCache enables result caching
func WithCache(cache PathCache) Option {
	return func(r *Router) { r.cache = cache }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// Create a new router without a grid. Queries fail with grid.ErrNoGrid until
// the first SetGrid.
func NewRouter(opts ...Option) (*Router, error) {
	r := &Router{
		store:         grid.NewStore(),
		navigatorName: defaultNavigator,
		logger:        slog.Default().With(slog.String("component", "router")),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !validNavigator(r.navigatorName) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNavigator, r.navigatorName)
	}
	return r, nil
}

func validNavigator(name string) bool { return slice.Contains(Navigators, name) }

// Set the navigator for subsequent queries. Returns false for unknown names.
func (r *Router) SetNavigator(name string) bool {
	if !validNavigator(name) {
		return false
	}
	r.mu.Lock()
	r.navigatorName = name
	r.mu.Unlock()
	r.logger.Info("navigator changed", slog.String("navigator", name))
	return true
}

func (r *Router) Navigator() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.navigatorName
}

func newNavigator(name string, g *grid.Grid) path.Navigator {
	switch name {
	case "dijkstra":
		return path.NewTileDijkstra(g)
	default:
		return path.NewTileAStar(g)
	}
}

// SetGrid validates the classification and elevation rows and publishes them
// as the new grid. Returns the version of the published grid.
func (r *Router) SetGrid(tiles [][]grid.Tile, heights [][]float64) (uint64, error) {
	g, err := grid.NewGrid(tiles, heights)
	if err != nil {
		return 0, fmt.Errorf("set grid: %w", err)
	}
	return r.PublishGrid(g), nil
}

// PublishGrid replaces the current grid with an already validated one
func (r *Router) PublishGrid(g *grid.Grid) uint64 {
	version := r.store.SetGrid(g)
	gridReplacements.Inc()
	r.logger.Info("grid published", slog.Uint64("version", version),
		slog.Int("width", g.Width()), slog.Int("height", g.Height()))
	return version
}

// Snapshot returns the current grid, or grid.ErrNoGrid
func (r *Router) Snapshot() (*grid.Grid, error) {
	return r.store.Snapshot()
}

// FindPath returns the tiles to traverse from start to end, excluding the
// start tile and including the end tile. An empty path means there is
// nothing to traverse: no path exists, an endpoint is out of bounds, the end
// is Blocked or start equals end.
func (r *Router) FindPath(startX, startY, endX, endY int, maxDrop, maxJump float64) ([]grid.Point, error) {
	result, err := r.SearchCoordinates(startX, startY, endX, endY, path.StepLimits{MaxDrop: maxDrop, MaxJump: maxJump})
	if err != nil {
		return nil, err
	}
	return result.Path, nil
}

// SearchCoordinates is Search for plain integer coordinates. Coordinates that
// cannot address any tile produce an OutOfBounds result.
func (r *Router) SearchCoordinates(startX, startY, endX, endY int, limits path.StepLimits) (path.Result, error) {
	if representable(startX, startY) && representable(endX, endY) {
		return r.Search(grid.MakePoint(uint16(startX), uint16(startY)), grid.MakePoint(uint16(endX), uint16(endY)), limits)
	}
	if _, err := r.store.Snapshot(); err != nil {
		return path.Result{}, err
	}
	if err := limits.Validate(); err != nil {
		return path.Result{}, err
	}
	queriesTotal.WithLabelValues(r.Navigator(), path.OutOfBounds.String()).Inc()
	return path.Result{Outcome: path.OutOfBounds, Path: make([]grid.Point, 0)}, nil
}

// coordinates that do not fit a grid.Point are out of bounds of every grid
func representable(x, y int) bool {
	return x >= 0 && y >= 0 && x <= grid.MaxDimension && y <= grid.MaxDimension
}

// Search runs one query on the current grid snapshot and returns the full
// result. Results are served from the cache when one is configured.
func (r *Router) Search(start, end grid.Point, limits path.StepLimits) (path.Result, error) {
	g, err := r.store.Snapshot()
	if err != nil {
		return path.Result{}, err
	}
	if err := limits.Validate(); err != nil {
		return path.Result{}, err
	}
	navigatorName := r.Navigator()

	key := CacheKey{Version: g.Version(), Navigator: navigatorName, Start: start, End: end, Limits: limits}
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			cacheRequests.WithLabelValues("hit").Inc()
			queriesTotal.WithLabelValues(navigatorName, cached.Outcome.String()).Inc()
			return cached, nil
		}
		cacheRequests.WithLabelValues("miss").Inc()
	}

	started := time.Now()
	result, err := newNavigator(navigatorName, g).ComputePath(start, end, limits)
	if err != nil {
		return result, err
	}
	elapsed := time.Since(started)

	queriesTotal.WithLabelValues(navigatorName, result.Outcome.String()).Inc()
	queryDuration.WithLabelValues(navigatorName).Observe(elapsed.Seconds())
	expandedNodes.WithLabelValues(navigatorName).Observe(float64(result.KPIs.PqPops))

	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("path query",
			slog.String("navigator", navigatorName),
			slog.Uint64("grid_version", g.Version()),
			slog.String("start", start.String()),
			slog.String("end", end.String()),
			slog.String("outcome", result.Outcome.String()),
			slog.Int("cost", result.Cost),
			slog.Int("expanded", result.KPIs.PqPops),
			slog.Duration("elapsed", elapsed),
		)
	}

	// trivial rejections are cheaper to recompute than to look up
	if r.cache != nil && (result.Outcome == path.Found || result.Outcome == path.Unreachable) {
		r.cache.Put(key, result)
	}
	return result, nil
}
