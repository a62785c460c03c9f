package grid

import (
	"errors"
	"sync"
	"testing"
)

const stepGrid = `4 3
#Tiles
.XI.
....
X..I
#Heights
0 0 0.5 1
0 1.25 2 -3
0 0 0 10
`

func TestGridReading(t *testing.T) {
	g, err := ParseGrid(stepGrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.AsString() != stepGrid {
		t.Errorf("Grid wrongly parsed\n%v", g.AsString())
	}
	if g.Width() != 4 || g.Height() != 3 {
		t.Errorf("dimensions are %vx%v. Should be 4x3", g.Width(), g.Height())
	}
	if g.Tile(1, 0) != Blocked || g.Tile(2, 0) != Interactive || g.Tile(3, 2) != Interactive {
		t.Errorf("wrong tile classification")
	}
	if g.Elevation(1, 1) != 1.25 || g.Elevation(3, 1) != -3 {
		t.Errorf("wrong elevation")
	}
}

func TestGridReadingErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"missing heights", "2 1\n..\n", ErrMalformedGridFile},
		{"short tile row", "2 1\n.\n0 0\n", ErrMalformedGridFile},
		{"unknown tile", "2 1\n.?\n0 0\n", ErrInvalidTile},
		{"trailing data", "1 1\n.\n0\n0\n", ErrMalformedGridFile},
		{"bad height", "1 1\n.\nabc\n", ErrMalformedGridFile},
		{"infinite height", "1 1\n.\n+Inf\n", ErrInvalidHeight},
		{"empty", "0 0\n", ErrEmptyGrid},
	}
	for _, c := range cases {
		if _, err := ParseGrid(c.text); !errors.Is(err, c.want) {
			t.Errorf("%v: error is %v, should be %v", c.name, err, c.want)
		}
	}
}

func TestNewGridValidation(t *testing.T) {
	if _, err := NewGrid(nil, nil); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("empty grid: got %v", err)
	}
	tiles := [][]Tile{{Open, Open}, {Open}}
	heights := [][]float64{{0, 0}, {0, 0}}
	if _, err := NewGrid(tiles, heights); !errors.Is(err, ErrRaggedGrid) {
		t.Errorf("ragged grid: got %v", err)
	}
	tiles = [][]Tile{{Open, Open}, {Open, Open}}
	if _, err := NewGrid(tiles, [][]float64{{0, 0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("height rows mismatch: got %v", err)
	}
	if _, err := NewGrid(tiles, [][]float64{{0, 0}, {0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("height columns mismatch: got %v", err)
	}
	if _, err := NewGrid([][]Tile{{Tile(7)}}, [][]float64{{0}}); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("invalid tile: got %v", err)
	}
	if _, err := NewGridFromSlices(MaxDimension+1, 1, nil, nil); !errors.Is(err, ErrGridTooLarge) {
		t.Errorf("too large: got %v", err)
	}
}

func TestGridCopiesInput(t *testing.T) {
	tiles := [][]Tile{{Open, Open}}
	heights := [][]float64{{1, 2}}
	g, err := NewGrid(tiles, heights)
	if err != nil {
		t.Fatal(err)
	}
	tiles[0][0] = Blocked
	heights[0][0] = 99
	if g.Tile(0, 0) != Open || g.Elevation(0, 0) != 1 {
		t.Errorf("grid shares memory with its input")
	}
	if g.Tile(-1, 0) != Blocked || g.Tile(2, 0) != Blocked {
		t.Errorf("out of bounds tiles should be Blocked")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	g, err := ParseGrid(stepGrid)
	if err != nil {
		t.Fatal(err)
	}
	doc := g.Document()
	if doc.Tiles[0] != ".XI." {
		t.Errorf("first row is %q. Should be %q", doc.Tiles[0], ".XI.")
	}
	restored, err := NewGridFromDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if restored.AsString() != g.AsString() {
		t.Errorf("document round trip changed the grid:\n%v", restored.AsString())
	}
}

func TestStoreWithoutGrid(t *testing.T) {
	s := NewStore()
	if _, err := s.Snapshot(); !errors.Is(err, ErrNoGrid) {
		t.Errorf("snapshot error is %v. Should be %v", err, ErrNoGrid)
	}
}

func TestStoreVersions(t *testing.T) {
	s := NewStore()
	g, _ := NewFlatGrid(2, 2)
	v1 := s.SetGrid(g)
	v2 := s.SetGrid(g)
	if v1 != 1 || v2 != 2 {
		t.Errorf("versions are %v, %v. Should be 1, 2", v1, v2)
	}
	snapshot, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Version() != 2 {
		t.Errorf("snapshot version is %v. Should be 2", snapshot.Version())
	}
	if g.Version() != 0 {
		t.Errorf("publishing must not modify the caller's grid")
	}
}

// Every published grid has all heights equal to a marker and its tiles
// Blocked for odd markers. A reader must never see a mix.
func TestStoreSnapshotConsistency(t *testing.T) {
	const size = 16
	makeGrid := func(marker int) *Grid {
		tiles := make([]Tile, size*size)
		heights := make([]float64, size*size)
		for i := range tiles {
			if marker%2 == 0 {
				tiles[i] = Open
			}
			heights[i] = float64(marker)
		}
		g, err := NewGridFromSlices(size, size, tiles, heights)
		if err != nil {
			t.Fatal(err)
		}
		return g
	}

	grids := make([]*Grid, 201)
	for i := range grids {
		grids[i] = makeGrid(i)
	}

	s := NewStore()
	s.SetGrid(grids[0])

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, g := range grids[1:] {
			s.SetGrid(g)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				g, err := s.Snapshot()
				if err != nil {
					t.Error(err)
					return
				}
				marker := int(g.ElevationAt(0))
				wantTile := Blocked
				if marker%2 == 0 {
					wantTile = Open
				}
				for idx := 0; idx < g.TileCount(); idx++ {
					if int(g.ElevationAt(idx)) != marker || g.TileAt(idx) != wantTile {
						t.Errorf("snapshot %v mixes grids at index %v", g.Version(), idx)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
