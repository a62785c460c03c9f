package grid

import (
	"errors"
	"fmt"
	"math"
)

// MaxDimension bounds the width and the height of a grid.
// With both at most 65535, width*height stays below 2^32 and every tile
// fits into a uint32 node id without wraparound.
const MaxDimension = math.MaxUint16

var (
	ErrNoGrid            = errors.New("no map configured")
	ErrEmptyGrid         = errors.New("grid has no tiles")
	ErrRaggedGrid        = errors.New("grid rows differ in length")
	ErrDimensionMismatch = errors.New("tile and height grids differ in dimensions")
	ErrGridTooLarge      = fmt.Errorf("grid exceeds %d tiles per axis", MaxDimension)
	ErrInvalidTile       = errors.New("invalid tile classification")
	ErrInvalidHeight     = errors.New("invalid tile height")
)

// Tile is the traversability classification of a single cell.
type Tile uint8

const (
	Blocked     Tile = iota // never traversable
	Open                    // freely traversable
	Interactive             // traversable only as the destination of a path
)

func (t Tile) Valid() bool { return t <= Interactive }

// Rune returns the character used for the tile in the text format
func (t Tile) Rune() rune {
	switch t {
	case Blocked:
		return 'X'
	case Open:
		return '.'
	case Interactive:
		return 'I'
	}
	return '?'
}

func (t Tile) String() string {
	switch t {
	case Blocked:
		return "Blocked"
	case Open:
		return "Open"
	case Interactive:
		return "Interactive"
	}
	return "INVALID"
}

// TileFromRune is the inverse of Tile.Rune
func TileFromRune(r rune) (Tile, error) {
	switch r {
	case 'X':
		return Blocked, nil
	case '.':
		return Open, nil
	case 'I':
		return Interactive, nil
	}
	return Blocked, fmt.Errorf("%w: %q", ErrInvalidTile, r)
}

// Point is a tile coordinate.
type Point struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

func MakePoint(x, y uint16) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Grid is an immutable snapshot of the classification and the elevation of
// every tile. Tiles and heights are stored row-major (index y*width+x) and
// always come from the same SetGrid call.
type Grid struct {
	width   int
	height  int
	tiles   []Tile
	heights []float64
	version uint64
}

// NewGrid creates a grid from rows indexed [y][x].
// Both grids must be rectangular and of identical dimensions.
func NewGrid(tiles [][]Tile, heights [][]float64) (*Grid, error) {
	height := len(tiles)
	if height == 0 || len(tiles[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(tiles[0])
	if len(heights) != height {
		return nil, fmt.Errorf("%w: %d tile rows, %d height rows", ErrDimensionMismatch, height, len(heights))
	}

	flatTiles := make([]Tile, 0, width*height)
	flatHeights := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		if len(tiles[y]) != width {
			return nil, fmt.Errorf("%w: tile row %d has %d columns, expected %d", ErrRaggedGrid, y, len(tiles[y]), width)
		}
		if len(heights[y]) != width {
			return nil, fmt.Errorf("%w: height row %d has %d columns, expected %d", ErrDimensionMismatch, y, len(heights[y]), width)
		}
		flatTiles = append(flatTiles, tiles[y]...)
		flatHeights = append(flatHeights, heights[y]...)
	}
	return NewGridFromSlices(width, height, flatTiles, flatHeights)
}

// NewGridFromSlices creates a grid from row-major slices.
// The slices are copied, later modifications by the caller have no effect.
func NewGridFromSlices(width, height int, tiles []Tile, heights []float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooLarge, width, height)
	}
	size := width * height
	if len(tiles) != size || len(heights) != size {
		return nil, fmt.Errorf("%w: expected %d cells, got %d tiles and %d heights", ErrDimensionMismatch, size, len(tiles), len(heights))
	}
	for i, t := range tiles {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, t, i%width, i/width)
		}
	}
	for i, h := range heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return nil, fmt.Errorf("%w: %v at (%d,%d)", ErrInvalidHeight, h, i%width, i/width)
		}
	}

	g := &Grid{
		width:   width,
		height:  height,
		tiles:   make([]Tile, size),
		heights: make([]float64, size),
	}
	copy(g.tiles, tiles)
	copy(g.heights, heights)
	return g, nil
}

// NewFlatGrid creates a width x height grid of Open tiles at elevation 0
func NewFlatGrid(width, height int) (*Grid, error) {
	size := width * height
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	tiles := make([]Tile, size)
	for i := range tiles {
		tiles[i] = Open
	}
	return NewGridFromSlices(width, height, tiles, make([]float64, size))
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// TileCount returns width*height
func (g *Grid) TileCount() int { return len(g.tiles) }

// Version is assigned by the Store on publication; 0 means unpublished.
func (g *Grid) Version() uint64 { return g.version }

// Contains reports whether the coordinate lies inside the grid
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Index returns the row-major index of an in-bounds coordinate
func (g *Grid) Index(x, y int) int { return y*g.width + x }

// Tile returns the classification at (x,y). Out-of-bounds coordinates are Blocked.
func (g *Grid) Tile(x, y int) Tile {
	if !g.Contains(x, y) {
		return Blocked
	}
	return g.tiles[y*g.width+x]
}

// TileAt returns the classification at a row-major index
func (g *Grid) TileAt(index int) Tile { return g.tiles[index] }

// Elevation returns the height of the tile at (x,y), 0 when out of bounds
func (g *Grid) Elevation(x, y int) float64 {
	if !g.Contains(x, y) {
		return 0
	}
	return g.heights[y*g.width+x]
}

// ElevationAt returns the height at a row-major index
func (g *Grid) ElevationAt(index int) float64 { return g.heights[index] }

// Rows returns copies of both grids as rows indexed [y][x]
func (g *Grid) Rows() ([][]Tile, [][]float64) {
	tiles := make([][]Tile, g.height)
	heights := make([][]float64, g.height)
	for y := 0; y < g.height; y++ {
		tiles[y] = append([]Tile(nil), g.tiles[y*g.width:(y+1)*g.width]...)
		heights[y] = append([]float64(nil), g.heights[y*g.width:(y+1)*g.width]...)
	}
	return tiles, heights
}

// withVersion returns a shallow copy carrying the given version.
// The tile and height slices are shared; neither is ever written after construction.
func (g *Grid) withVersion(version uint64) *Grid {
	c := *g
	c.version = version
	return &c
}
