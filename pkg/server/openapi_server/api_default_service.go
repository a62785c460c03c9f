package openapi_server

import (
	"context"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/grid/path"
	"github.com/natevvv/tile-pathfinding/pkg/routing"
)

// DefaultApiService is a service that implements the logic for the DefaultApiServicer
// This service should implement the business logic for every endpoint for the DefaultApi API.
// Include any external packages or services that will be required by this service.
type DefaultApiService struct {
	router *routing.Router
}

// NewDefaultApiService creates a default api service
func NewDefaultApiService(router *routing.Router) DefaultApiServicer {
	return &DefaultApiService{router: router}
}

func (s *DefaultApiService) search(request PathRequest) (path.Result, error) {
	limits := path.StepLimits{MaxDrop: request.MaxDrop, MaxJump: request.MaxJump}
	return s.router.SearchCoordinates(int(request.Start.X), int(request.Start.Y), int(request.End.X), int(request.End.Y), limits)
}

func toPoint(p grid.Point) Point {
	return Point{X: int32(p.X), Y: int32(p.Y)}
}

// ComputePath - Compute the path between two tiles
func (s *DefaultApiService) ComputePath(ctx context.Context, pathRequest PathRequest) (ImplResponse, error) {
	result, err := s.search(pathRequest)
	if err != nil {
		return Response(http.StatusInternalServerError, nil), err
	}

	pathResult := PathResult{
		Start:         pathRequest.Start,
		End:           pathRequest.End,
		Navigator:     s.router.Navigator(),
		Outcome:       result.Outcome.String(),
		Reachable:     result.Reachable(),
		Cost:          int32(result.Cost),
		Path:          make([]Point, 0, len(result.Path)),
		ExpandedNodes: int32(result.KPIs.PqPops),
	}
	for _, p := range result.Path {
		pathResult.Path = append(pathResult.Path, toPoint(p))
	}
	return Response(http.StatusOK, pathResult), nil
}

// ComputePathGeoJson - Compute the path as a feature collection in tile coordinates:
// the start and end points and, if a path exists, a line string from start to end.
func (s *DefaultApiService) ComputePathGeoJson(ctx context.Context, pathRequest PathRequest) (ImplResponse, error) {
	result, err := s.search(pathRequest)
	if err != nil {
		return Response(http.StatusInternalServerError, nil), err
	}

	start := orb.Point{float64(pathRequest.Start.X), float64(pathRequest.Start.Y)}
	end := orb.Point{float64(pathRequest.End.X), float64(pathRequest.End.Y)}

	fc := geojson.NewFeatureCollection()
	if result.Outcome == path.Found {
		line := make(orb.LineString, 0, len(result.Path)+1)
		line = append(line, start)
		for _, p := range result.Path {
			line = append(line, orb.Point{float64(p.X), float64(p.Y)})
		}
		feature := geojson.NewFeature(line)
		feature.Properties["cost"] = result.Cost
		feature.Properties["navigator"] = s.router.Navigator()
		fc.Append(feature)
	}
	for _, endpoint := range []struct {
		role  string
		point orb.Point
	}{{"start", start}, {"end", end}} {
		feature := geojson.NewFeature(endpoint.point)
		feature.Properties["role"] = endpoint.role
		feature.Properties["outcome"] = result.Outcome.String()
		fc.Append(feature)
	}
	return Response(http.StatusOK, fc), nil
}

// GetGrid - Dimensions and version of the current grid
func (s *DefaultApiService) GetGrid(ctx context.Context) (ImplResponse, error) {
	g, err := s.router.Snapshot()
	if err != nil {
		return Response(http.StatusConflict, nil), err
	}
	return Response(http.StatusOK, GridInfo{Width: int32(g.Width()), Height: int32(g.Height()), Version: g.Version()}), nil
}

// SetGrid - Replace the grid
func (s *DefaultApiService) SetGrid(ctx context.Context, gridDocument GridDocument) (ImplResponse, error) {
	g, err := grid.NewGridFromDocument(grid.Document{Tiles: gridDocument.Tiles, Heights: gridDocument.Heights})
	if err != nil {
		return Response(http.StatusBadRequest, nil), err
	}
	version := s.router.PublishGrid(g)
	return Response(http.StatusOK, GridInfo{Width: int32(g.Width()), Height: int32(g.Height()), Version: version}), nil
}

// SetNavigator - Select the search algorithm
func (s *DefaultApiService) SetNavigator(ctx context.Context, navigatorRequest NavigatorRequest) (ImplResponse, error) {
	success := s.router.SetNavigator(navigatorRequest.Navigator)

	if !success {
		return Response(http.StatusBadRequest, "Unknown Navigator"), nil
	}
	return Response(http.StatusOK, navigatorRequest.Navigator), nil
}
