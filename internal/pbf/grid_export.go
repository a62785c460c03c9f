package pbf

import (
	"encoding/json"
	"os"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

// ExportGridJson writes the grid as a JSON document, the body accepted by PUT /grid
func ExportGridJson(g *grid.Grid, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewEncoder(file).Encode(g.Document())
}
