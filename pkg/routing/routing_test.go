package routing

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/grid/path"
)

const wallGrid = `4 3
.X..
.X..
....
0 0 0 0
0 0 0 0
0 0 0 0
`

func newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()
	r, err := NewRouter(opts...)
	if err != nil {
		t.Fatal(err)
	}
	g, err := grid.ParseGrid(wallGrid)
	if err != nil {
		t.Fatal(err)
	}
	r.PublishGrid(g)
	return r
}

func TestFindPathWithoutGrid(t *testing.T) {
	r, err := NewRouter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.FindPath(0, 0, 1, 1, 1, 1); !errors.Is(err, grid.ErrNoGrid) {
		t.Errorf("error is %v. Should be %v", err, grid.ErrNoGrid)
	}
	if _, err := r.FindPath(-1, 0, 1, 1, 1, 1); !errors.Is(err, grid.ErrNoGrid) {
		t.Errorf("out of bounds query without grid: error is %v. Should be %v", err, grid.ErrNoGrid)
	}
}

func TestSetGridAndFindPath(t *testing.T) {
	r, err := NewRouter()
	if err != nil {
		t.Fatal(err)
	}
	tiles := [][]grid.Tile{
		{grid.Open, grid.Blocked, grid.Open},
		{grid.Open, grid.Open, grid.Open},
	}
	heights := [][]float64{{0, 0, 0}, {0, 0, 0}}
	version, err := r.SetGrid(tiles, heights)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("version is %v. Should be 1", version)
	}

	p, err := r.FindPath(0, 0, 2, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []grid.Point{grid.MakePoint(0, 1), grid.MakePoint(1, 1), grid.MakePoint(2, 1), grid.MakePoint(2, 0)}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("path is %v. Should be %v", p, want)
	}

	if _, err := r.SetGrid([][]grid.Tile{{grid.Open}}, nil); !errors.Is(err, grid.ErrDimensionMismatch) {
		t.Errorf("invalid grid: error is %v. Should be %v", err, grid.ErrDimensionMismatch)
	}
	g, _ := r.Snapshot()
	if g.Version() != 1 {
		t.Errorf("a rejected grid must not replace the current one")
	}
}

func TestFindPathOutOfBounds(t *testing.T) {
	r := newTestRouter(t)
	for _, c := range [][4]int{{-1, 0, 2, 2}, {0, 0, 4, 0}, {0, 70000, 0, 0}, {0, 0, 0, -5}} {
		p, err := r.FindPath(c[0], c[1], c[2], c[3], 1, 1)
		if err != nil {
			t.Errorf("%v: unexpected error %v", c, err)
		}
		if p == nil || len(p) != 0 {
			t.Errorf("%v: path is %v. Should be empty", c, p)
		}
	}
}

func TestInvalidLimits(t *testing.T) {
	r := newTestRouter(t)
	if _, err := r.FindPath(0, 0, 3, 0, -1, 0); !errors.Is(err, path.ErrInvalidStepLimit) {
		t.Errorf("error is %v. Should be %v", err, path.ErrInvalidStepLimit)
	}
}

func TestNavigatorSelection(t *testing.T) {
	if _, err := NewRouter(WithNavigator("contraction-hierarchies")); !errors.Is(err, ErrUnknownNavigator) {
		t.Errorf("error is %v. Should be %v", err, ErrUnknownNavigator)
	}

	r := newTestRouter(t, WithNavigator("dijkstra"))
	if r.SetNavigator("bidirectional") {
		t.Errorf("unknown navigator accepted")
	}
	if r.Navigator() != "dijkstra" {
		t.Errorf("navigator is %v. Should be dijkstra", r.Navigator())
	}

	start, end := grid.MakePoint(0, 0), grid.MakePoint(3, 0)
	limits := path.StepLimits{MaxDrop: 1, MaxJump: 1}
	dijkstra, err := r.Search(start, end, limits)
	if err != nil {
		t.Fatal(err)
	}
	if !r.SetNavigator("astar") {
		t.Fatalf("astar rejected")
	}
	astar, err := r.Search(start, end, limits)
	if err != nil {
		t.Fatal(err)
	}
	if dijkstra.Cost != astar.Cost || dijkstra.Cost != 64 {
		t.Errorf("costs are %v (dijkstra) and %v (astar). Should both be 64", dijkstra.Cost, astar.Cost)
	}
	if astar.KPIs.PqPops > dijkstra.KPIs.PqPops {
		t.Errorf("astar expanded %v nodes, dijkstra only %v", astar.KPIs.PqPops, dijkstra.KPIs.PqPops)
	}
}

func TestCachedSearch(t *testing.T) {
	cache, err := NewBadgerCache("", true)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	r := newTestRouter(t, WithCache(cache))
	start, end := grid.MakePoint(0, 0), grid.MakePoint(3, 0)
	limits := path.StepLimits{MaxDrop: 1, MaxJump: 1}

	first, err := r.Search(start, end, limits)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Search(start, end, limits)
	if err != nil {
		t.Fatal(err)
	}
	if hits, misses, errs := cache.Stats(); hits != 1 || misses != 1 || errs != 0 {
		t.Errorf("cache stats are %v/%v/%v. Should be 1/1/0", hits, misses, errs)
	}
	if second.Outcome != first.Outcome || second.Cost != first.Cost || !reflect.DeepEqual(second.Path, first.Path) {
		t.Errorf("cached result %+v differs from %+v", second, first)
	}
	if second.Origin != start || second.Destination != end {
		t.Errorf("cached result has wrong endpoints %v -> %v", second.Origin, second.Destination)
	}

	// a new grid invalidates everything computed on the previous one
	g, _ := grid.NewFlatGrid(4, 3)
	r.PublishGrid(g)
	third, err := r.Search(start, end, limits)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cost != 30 {
		t.Errorf("cost on the new grid is %v. Should be 30", third.Cost)
	}
	if hits, misses, _ := cache.Stats(); hits != 1 || misses != 2 {
		t.Errorf("cache stats are %v/%v. Should be 1/2", hits, misses)
	}
}

func TestResultEncoding(t *testing.T) {
	result := path.Result{
		Outcome: path.Found,
		Cost:    1234,
		Path:    []grid.Point{grid.MakePoint(1, 2), grid.MakePoint(65535, 0)},
	}
	decoded, err := decodeResult(encodeResult(result))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, result) {
		t.Errorf("decoded %+v. Should be %+v", decoded, result)
	}
	if _, err := decodeResult([]byte{1, 2, 3}); !errors.Is(err, errCorruptEntry) {
		t.Errorf("short value: error is %v", err)
	}
}

func TestMetrics(t *testing.T) {
	r := newTestRouter(t)
	replacements := testutil.ToFloat64(gridReplacements)
	unreachable := testutil.ToFloat64(queriesTotal.WithLabelValues("astar", "unreachable"))

	g, _ := grid.ParseGrid("3 1\n.X.\n0 0 0\n")
	r.PublishGrid(g)
	if _, err := r.FindPath(0, 0, 2, 0, 1, 1); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(gridReplacements) - replacements; got != 1 {
		t.Errorf("grid replacements grew by %v. Should be 1", got)
	}
	if got := testutil.ToFloat64(queriesTotal.WithLabelValues("astar", "unreachable")) - unreachable; got != 1 {
		t.Errorf("unreachable queries grew by %v. Should be 1", got)
	}
}

// Queries racing with grid replacements must always see one complete grid:
// the wall grid (cost 64) or the flat grid (cost 30).
func TestSearchDuringReplacement(t *testing.T) {
	r := newTestRouter(t)
	wall, _ := grid.ParseGrid(wallGrid)
	flat, _ := grid.NewFlatGrid(4, 3)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if i%2 == 0 {
				r.PublishGrid(flat)
			} else {
				r.PublishGrid(wall)
			}
		}
	}()
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				result, err := r.Search(grid.MakePoint(0, 0), grid.MakePoint(3, 0), path.StepLimits{})
				if err != nil {
					t.Error(err)
					return
				}
				if result.Cost != 30 && result.Cost != 64 {
					t.Errorf("cost %v belongs to no published grid", result.Cost)
					return
				}
			}
		}()
	}
	wg.Wait()
}
