package grid

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// grid file parse states
const (
	PARSE_DIMENSIONS = iota
	PARSE_TILES      = iota
	PARSE_HEIGHTS    = iota
	PARSE_DONE       = iota
)

var ErrMalformedGridFile = errors.New("malformed grid file")

// WriteGridFile stores the grid in the text format read by ReadGridFile
func WriteGridFile(g *Grid, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(g.AsString()); err != nil {
		return err
	}
	return writer.Flush()
}

// AsString returns the grid in its text format:
// "width height", one rune row per line, then one elevation row per line.
func (g *Grid) AsString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%v %v\n", g.width, g.height))

	sb.WriteString("#Tiles\n")
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			sb.WriteRune(g.tiles[y*g.width+x].Rune())
		}
		sb.WriteString("\n")
	}

	sb.WriteString("#Heights\n")
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if x > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(strconv.FormatFloat(g.heights[y*g.width+x], 'g', -1, 64))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ParseGrid reads a grid from its text format. Empty lines and lines
// starting with '#' are skipped.
func ParseGrid(text string) (*Grid, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*MaxDimension*8)

	width, height := 0, 0
	var tiles []Tile
	var heights []float64
	lineNumber := 0

	parseState := PARSE_DIMENSIONS
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}

		switch parseState {
		case PARSE_DIMENSIONS:
			if _, err := fmt.Sscanf(line, "%d %d", &width, &height); err != nil {
				return nil, fmt.Errorf("%w: line %d: dimensions: %v", ErrMalformedGridFile, lineNumber, err)
			}
			if width <= 0 || height <= 0 {
				return nil, ErrEmptyGrid
			}
			if width > MaxDimension || height > MaxDimension {
				return nil, fmt.Errorf("%w: %dx%d", ErrGridTooLarge, width, height)
			}
			tiles = make([]Tile, 0, width*height)
			heights = make([]float64, 0, width*height)
			parseState = PARSE_TILES
		case PARSE_TILES:
			row := []rune(line)
			if len(row) != width {
				return nil, fmt.Errorf("%w: line %d: %d tiles, expected %d", ErrMalformedGridFile, lineNumber, len(row), width)
			}
			for _, r := range row {
				t, err := TileFromRune(r)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				tiles = append(tiles, t)
			}
			if len(tiles) == width*height {
				parseState = PARSE_HEIGHTS
			}
		case PARSE_HEIGHTS:
			fields := strings.Fields(line)
			if len(fields) != width {
				return nil, fmt.Errorf("%w: line %d: %d heights, expected %d", ErrMalformedGridFile, lineNumber, len(fields), width)
			}
			for _, field := range fields {
				h, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedGridFile, lineNumber, err)
				}
				heights = append(heights, h)
			}
			if len(heights) == width*height {
				parseState = PARSE_DONE
			}
		case PARSE_DONE:
			return nil, fmt.Errorf("%w: line %d: unexpected trailing data", ErrMalformedGridFile, lineNumber)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if parseState != PARSE_DONE {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrMalformedGridFile)
	}

	return NewGridFromSlices(width, height, tiles, heights)
}

// ReadGridFile reads a grid stored with WriteGridFile
func ReadGridFile(filename string) (*Grid, error) {
	text, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseGrid(string(text))
}
