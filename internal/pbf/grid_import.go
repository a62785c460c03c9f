package pbf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/qedus/osmpbf"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

// PbfImporter rasterizes an .osm.pbf extract onto a tile grid
type PbfImporter struct {
	filename   string
	rasterizer *Rasterizer
	logger     *slog.Logger
}

func NewPbfImporter(filename string, rasterizer *Rasterizer) *PbfImporter {
	return &PbfImporter{
		filename:   filename,
		rasterizer: rasterizer,
		logger:     slog.Default().With(slog.String("component", "pbf_import")),
	}
}

// Import reads the file twice: nodes first, then the ways referencing them
func (pi *PbfImporter) Import() error {
	if err := pi.collectNodes(); err != nil {
		return err
	}
	pi.logger.Info("nodes collected", slog.Int("nodes", pi.rasterizer.NodeCount()))

	decoder, file, err := pi.openDecoder()
	if err != nil {
		return err
	}
	defer file.Close()

	var wg sync.WaitGroup
	waysChan := make(chan *osmpbf.Way, 1000)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for w := range waysChan {
			pi.rasterizer.AddWay(w.NodeIDs, w.Tags)
		}
	}()

	var decodeErr error
	for {
		v, err := decoder.Decode()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				decodeErr = fmt.Errorf("decode %v: %w", pi.filename, err)
			}
			break
		}
		if w, ok := v.(*osmpbf.Way); ok {
			waysChan <- w
		}
	}
	close(waysChan)
	wg.Wait()

	if decodeErr != nil {
		return decodeErr
	}
	pi.logger.Info("ways collected", slog.Int("ways", pi.rasterizer.WayCount()))
	return nil
}

func (pi *PbfImporter) Grid() (*grid.Grid, error) {
	return pi.rasterizer.Grid()
}

func (pi *PbfImporter) openDecoder() (*osmpbf.Decoder, *os.File, error) {
	file, err := os.Open(pi.filename)
	if err != nil {
		return nil, nil, err
	}

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		file.Close()
		return nil, nil, err
	}
	return decoder, file, nil
}

func (pi *PbfImporter) collectNodes() error {
	decoder, file, err := pi.openDecoder()
	if err != nil {
		return err
	}
	defer file.Close()

	for {
		v, err := decoder.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode %v: %w", pi.filename, err)
		}
		if n, ok := v.(*osmpbf.Node); ok {
			pi.rasterizer.AddNode(n.ID, n.Lon, n.Lat, n.Tags)
		}
	}
}
