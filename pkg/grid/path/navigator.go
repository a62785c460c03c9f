package path

import (
	"errors"
	"fmt"
	"math"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
)

var ErrInvalidStepLimit = errors.New("step limits must be non-negative numbers")

type Navigator interface {
	ComputePath(origin, destination grid.Point, limits StepLimits) (Result, error) // Compute the path from origin to destination on the navigator's grid
	GetGrid() *grid.Grid                                                           // Get the used grid
}

// StepLimits bound the elevation change of a single step
type StepLimits struct {
	MaxDrop float64 // maximum descent per step
	MaxJump float64 // maximum ascent per step
}

func (l StepLimits) Validate() error {
	if math.IsNaN(l.MaxDrop) || math.IsNaN(l.MaxJump) || l.MaxDrop < 0 || l.MaxJump < 0 {
		return fmt.Errorf("%w: maxDrop=%v, maxJump=%v", ErrInvalidStepLimit, l.MaxDrop, l.MaxJump)
	}
	return nil
}

// allows reports whether a step from elevation `from` to elevation `to` is within the limits
func (l StepLimits) allows(from, to float64) bool {
	return to <= from+l.MaxJump && to >= from-l.MaxDrop
}

// Outcome tells why a search produced the path it did
type Outcome uint8

const (
	Found              Outcome = iota // a path was found
	Trivial                           // origin equals destination, nothing to traverse
	Unreachable                       // the search exhausted the open set
	BlockedDestination                // the destination tile is Blocked
	OutOfBounds                       // origin or destination lies outside the grid
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Trivial:
		return "trivial"
	case Unreachable:
		return "unreachable"
	case BlockedDestination:
		return "blocked_destination"
	case OutOfBounds:
		return "out_of_bounds"
	}
	return "INVALID"
}

// SearchKPIs count the work done by one search
type SearchKPIs struct {
	PqPops             int // nodes extracted from the open set (expanded)
	PqUpdates          int // pushes and decrease-key operations on the open set
	RelaxationAttempts int // neighbor candidates examined
	RelaxedEdges       int // candidates which were admitted or improved
	DiscoveredNodes    int // node ids assigned, including the origin
}

// Result of a single search.
// Path excludes the origin and includes the destination; it is empty unless Outcome is Found.
type Result struct {
	Origin      grid.Point
	Destination grid.Point
	Outcome     Outcome
	Path        []grid.Point
	Cost        int          // accumulated step cost of Path
	KPIs        SearchKPIs
	SearchSpace []grid.Point // expanded tiles, only recorded on request
}

func (r Result) Reachable() bool { return r.Outcome == Found }
