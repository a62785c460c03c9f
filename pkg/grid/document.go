package grid

import "fmt"

// Document is the JSON representation of a grid.
// Each tile row is a string of tile runes (see Tile.Rune).
type Document struct {
	Tiles   []string    `json:"tiles"`
	Heights [][]float64 `json:"heights"`
}

// Document converts the grid into its JSON representation
func (g *Grid) Document() Document {
	doc := Document{
		Tiles:   make([]string, g.height),
		Heights: make([][]float64, g.height),
	}
	for y := 0; y < g.height; y++ {
		row := make([]rune, g.width)
		for x := 0; x < g.width; x++ {
			row[x] = g.tiles[y*g.width+x].Rune()
		}
		doc.Tiles[y] = string(row)
		doc.Heights[y] = append([]float64(nil), g.heights[y*g.width:(y+1)*g.width]...)
	}
	return doc
}

// NewGridFromDocument validates the document and builds a grid from it
func NewGridFromDocument(doc Document) (*Grid, error) {
	tiles := make([][]Tile, len(doc.Tiles))
	for y, line := range doc.Tiles {
		runes := []rune(line)
		tiles[y] = make([]Tile, len(runes))
		for x, r := range runes {
			t, err := TileFromRune(r)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", y, err)
			}
			tiles[y][x] = t
		}
	}
	return NewGrid(tiles, doc.Heights)
}
