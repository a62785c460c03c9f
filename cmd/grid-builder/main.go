package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/natevvv/tile-pathfinding/internal/pbf"
	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

var flagInputFile = flag.String("f", "map.osm.pbf", "OSM input file (.osm.pbf or .osm)")
var flagOutputFile = flag.String("o", "map.grid", "Output grid file")
var flagJsonFile = flag.String("json", "", "Additionally write the grid as JSON document")
var flagWidth = flag.Int("width", 512, "Grid width in tiles")
var flagHeight = flag.Int("height", 512, "Grid height in tiles")
var flagBound = flag.String("bound", "", "Restrict the import to minLon,minLat,maxLon,maxLat")
var flagLogLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")

func parseBound(s string) (orb.Bound, error) {
	var minLon, minLat, maxLon, maxLat float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g,%g", &minLon, &minLat, &maxLon, &maxLat); err != nil {
		return orb.Bound{}, fmt.Errorf("invalid bound %q: %w", s, err)
	}
	return orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}, nil
}

func main() {
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*flagLogLevel)); err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rasterizer := pbf.NewRasterizer(*flagWidth, *flagHeight)
	if *flagBound != "" {
		bound, err := parseBound(*flagBound)
		if err != nil {
			log.Fatal(err)
		}
		rasterizer.SetBound(bound)
	}

	start := time.Now()

	var g *grid.Grid
	var err error
	if strings.HasSuffix(*flagInputFile, ".pbf") {
		importer := pbf.NewPbfImporter(*flagInputFile, rasterizer)
		if err = importer.Import(); err == nil {
			g, err = importer.Grid()
		}
	} else {
		g, err = pbf.ImportXmlFile(context.Background(), *flagInputFile, rasterizer)
	}
	if err != nil {
		log.Fatal(err)
	}

	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)
	fmt.Printf("Nodes: %d, rasterized ways: %d, bound: %v\n", rasterizer.NodeCount(), rasterizer.WayCount(), rasterizer.Bound())

	start = time.Now()

	if err := grid.WriteGridFile(g, *flagOutputFile); err != nil {
		log.Fatal(err)
	}
	if *flagJsonFile != "" {
		if err := pbf.ExportGridJson(g, *flagJsonFile); err != nil {
			log.Fatal(err)
		}
	}

	elapsed = time.Since(start)
	fmt.Printf("[TIME-Export] = %s\n", elapsed)
	fmt.Printf("Exported %dx%d grid to %s\n", g.Width(), g.Height(), *flagOutputFile)
}
