package pbf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

var ErrNoNodes = errors.New("no nodes to rasterize")

// Classify maps OSM tags to a tile class.
// Entrances, doors and amenities are Interactive; barriers, buildings, walls,
// water and cliffs are Blocked. Everything else is Open.
func Classify(tags map[string]string) grid.Tile {
	for _, key := range []string{"entrance", "door", "amenity"} {
		if v, ok := tags[key]; ok && v != "no" {
			return grid.Interactive
		}
	}
	for _, key := range []string{"barrier", "building", "wall"} {
		if v, ok := tags[key]; ok && v != "no" {
			return grid.Blocked
		}
	}
	switch tags["natural"] {
	case "water", "cliff":
		return grid.Blocked
	}
	return grid.Open
}

// Elevation parses the ele tag. Values may carry a trailing unit "m".
func Elevation(tags map[string]string) (float64, bool) {
	value, ok := tags["ele"]
	if !ok {
		return 0, false
	}
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "m"))
	ele, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(ele) || math.IsInf(ele, 0) {
		return 0, false
	}
	return ele, true
}

type node struct {
	position orb.Point
	tile     grid.Tile
	ele      float64
	hasEle   bool
}

type way struct {
	nodeIds []int64
	tile    grid.Tile
}

// Rasterizer projects OSM nodes and ways onto a width x height tile grid.
// The bound of all added nodes (or the one set with SetBound) is stretched
// over the grid, north up.
type Rasterizer struct {
	width, height int
	bound         orb.Bound
	fixedBound    bool
	nodes         map[int64]node
	ways          []way
}

func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{width: width, height: height, nodes: make(map[int64]node)}
}

// SetBound restricts the grid to the bound, nodes outside are ignored
func (r *Rasterizer) SetBound(bound orb.Bound) {
	r.bound = bound
	r.fixedBound = true
}

func (r *Rasterizer) Bound() orb.Bound { return r.bound }

func (r *Rasterizer) NodeCount() int { return len(r.nodes) }

func (r *Rasterizer) WayCount() int { return len(r.ways) }

func (r *Rasterizer) AddNode(id int64, lon, lat float64, tags map[string]string) {
	p := orb.Point{lon, lat}
	if r.fixedBound {
		if !r.bound.Contains(p) {
			return
		}
	} else if len(r.nodes) == 0 {
		r.bound = orb.Bound{Min: p, Max: p}
	} else {
		r.bound = r.bound.Extend(p)
	}
	n := node{position: p, tile: Classify(tags)}
	n.ele, n.hasEle = Elevation(tags)
	r.nodes[id] = n
}

// AddWay remembers a way; only ways with a non-Open class are rasterized
func (r *Rasterizer) AddWay(nodeIds []int64, tags map[string]string) {
	tile := Classify(tags)
	if tile == grid.Open {
		return
	}
	r.ways = append(r.ways, way{nodeIds: append([]int64(nil), nodeIds...), tile: tile})
}

func (r *Rasterizer) project(p orb.Point) (int, int) {
	scale := func(v, min, max float64, cells int) int {
		if max <= min || cells <= 1 {
			return 0
		}
		return int(math.Round((v - min) / (max - min) * float64(cells-1)))
	}
	x := scale(p.X(), r.bound.Min.X(), r.bound.Max.X(), r.width)
	y := r.height - 1 - scale(p.Y(), r.bound.Min.Y(), r.bound.Max.Y(), r.height)
	return x, y
}

type canvas struct {
	width     int
	tiles     []grid.Tile
	heights   []float64
	hasHeight []bool
}

// Interactive beats Blocked beats Open, so an entrance in a wall stays usable
func rank(t grid.Tile) int {
	switch t {
	case grid.Interactive:
		return 2
	case grid.Blocked:
		return 1
	}
	return 0
}

func (c *canvas) paint(x, y int, t grid.Tile) {
	i := y*c.width + x
	if rank(t) > rank(c.tiles[i]) {
		c.tiles[i] = t
	}
}

// the highest sample of a tile wins
func (c *canvas) elevate(x, y int, ele float64) {
	i := y*c.width + x
	if !c.hasHeight[i] || ele > c.heights[i] {
		c.heights[i] = ele
		c.hasHeight[i] = true
	}
}

// line paints all tiles between two tiles (Bresenham)
func (c *canvas) line(x0, y0, x1, y1 int, t grid.Tile) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.paint(x0, y0, t)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid rasterizes everything added so far
func (r *Rasterizer) Grid() (*grid.Grid, error) {
	if len(r.nodes) == 0 {
		return nil, ErrNoNodes
	}
	size := r.width * r.height
	if r.width <= 0 || r.height <= 0 {
		return nil, fmt.Errorf("rasterize %dx%d: %w", r.width, r.height, grid.ErrEmptyGrid)
	}
	c := &canvas{
		width:     r.width,
		tiles:     make([]grid.Tile, size),
		heights:   make([]float64, size),
		hasHeight: make([]bool, size),
	}
	for i := range c.tiles {
		c.tiles[i] = grid.Open
	}

	for _, w := range r.ways {
		prevX, prevY, hasPrev := 0, 0, false
		for _, id := range w.nodeIds {
			n, ok := r.nodes[id]
			if !ok {
				// node outside the bound or missing in the extract
				hasPrev = false
				continue
			}
			x, y := r.project(n.position)
			if hasPrev {
				c.line(prevX, prevY, x, y, w.tile)
			} else {
				c.paint(x, y, w.tile)
			}
			prevX, prevY, hasPrev = x, y, true
		}
	}
	for _, n := range r.nodes {
		x, y := r.project(n.position)
		c.paint(x, y, n.tile)
		if n.hasEle {
			c.elevate(x, y, n.ele)
		}
	}
	return grid.NewGridFromSlices(r.width, r.height, c.tiles, c.heights)
}
