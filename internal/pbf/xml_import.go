package pbf

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

// XmlImporter rasterizes an .osm XML document onto a tile grid.
// OSM XML lists all nodes before the ways, so one pass is enough.
type XmlImporter struct {
	reader     io.Reader
	rasterizer *Rasterizer
}

func NewXmlImporter(reader io.Reader, rasterizer *Rasterizer) *XmlImporter {
	return &XmlImporter{reader: reader, rasterizer: rasterizer}
}

func tagMap(tags osm.Tags) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		m[tag.Key] = tag.Value
	}
	return m
}

func (xi *XmlImporter) Import(ctx context.Context) error {
	scanner := osmxml.New(ctx, xi.reader)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			xi.rasterizer.AddNode(int64(o.ID), o.Lon, o.Lat, tagMap(o.Tags))
		case *osm.Way:
			nodeIds := make([]int64, 0, len(o.Nodes))
			for _, wn := range o.Nodes {
				nodeIds = append(nodeIds, int64(wn.ID))
			}
			xi.rasterizer.AddWay(nodeIds, tagMap(o.Tags))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm xml: %w", err)
	}
	return nil
}

func (xi *XmlImporter) Grid() (*grid.Grid, error) {
	return xi.rasterizer.Grid()
}

// ImportXmlFile opens and imports the file in one step
func ImportXmlFile(ctx context.Context, filename string, rasterizer *Rasterizer) (*grid.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	importer := NewXmlImporter(file, rasterizer)
	if err := importer.Import(ctx); err != nil {
		return nil, err
	}
	return importer.Grid()
}
