package openapi_server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/tile-pathfinding/pkg/routing"
)

const wallDocument = `{"tiles": [".X.", "..."], "heights": [[0, 0, 0], [0, 0, 0]]}`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	router, err := routing.NewRouter()
	if err != nil {
		t.Fatal(err)
	}
	return NewRouter(NewDefaultApiController(NewDefaultApiService(router)), NewMetricsController())
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPathBeforeGrid(t *testing.T) {
	server := newTestServer(t)
	rec := do(t, server, http.MethodPost, "/paths", `{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status is %v. Should be %v", rec.Code, http.StatusConflict)
	}
	if rec := do(t, server, http.MethodGet, "/grid", ""); rec.Code != http.StatusConflict {
		t.Errorf("grid info status is %v. Should be %v", rec.Code, http.StatusConflict)
	}
}

func TestSetGridAndComputePath(t *testing.T) {
	server := newTestServer(t)

	rec := do(t, server, http.MethodPut, "/grid", wallDocument)
	if rec.Code != http.StatusOK {
		t.Fatalf("status is %v: %v", rec.Code, rec.Body.String())
	}
	var info GridInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info != (GridInfo{Width: 3, Height: 2, Version: 1}) {
		t.Errorf("grid info is %+v", info)
	}

	rec = do(t, server, http.MethodPost, "/paths", `{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}, "maxDrop": 1, "maxJump": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status is %v: %v", rec.Code, rec.Body.String())
	}
	var result PathResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 1}, {1, 1}, {2, 1}, {2, 0}}
	if result.Outcome != "found" || !result.Reachable || result.Cost != 40 || len(result.Path) != len(want) {
		t.Fatalf("unexpected result %+v", result)
	}
	for i := range want {
		if result.Path[i] != want[i] {
			t.Errorf("path is %v. Should be %v", result.Path, want)
			break
		}
	}
}

func TestOutOfBoundsRequest(t *testing.T) {
	server := newTestServer(t)
	do(t, server, http.MethodPut, "/grid", wallDocument)

	rec := do(t, server, http.MethodPost, "/paths", `{"start": {"x": -1, "y": 0}, "end": {"x": 2, "y": 0}}`)
	var result PathResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Outcome != "out_of_bounds" || result.Reachable || len(result.Path) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestBadRequests(t *testing.T) {
	server := newTestServer(t)
	cases := []struct {
		name, method, target, body string
		status                     int
	}{
		{"malformed json", http.MethodPut, "/grid", `{"tiles": `, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/grid", `{"tiles": ["."], "heights": [[0]], "depth": 1}`, http.StatusBadRequest},
		{"missing heights", http.MethodPut, "/grid", `{"tiles": ["."]}`, http.StatusUnprocessableEntity},
		{"ragged grid", http.MethodPut, "/grid", `{"tiles": ["..", "."], "heights": [[0, 0], [0]]}`, http.StatusBadRequest},
		{"invalid tile", http.MethodPut, "/grid", `{"tiles": ["?"], "heights": [[0]]}`, http.StatusBadRequest},
		{"unknown navigator", http.MethodPost, "/navigator", `{"navigator": "contraction-hierarchies"}`, http.StatusBadRequest},
		{"missing navigator", http.MethodPost, "/navigator", `{}`, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		if rec := do(t, server, c.method, c.target, c.body); rec.Code != c.status {
			t.Errorf("%v: status is %v. Should be %v", c.name, rec.Code, c.status)
		}
	}

	do(t, server, http.MethodPut, "/grid", wallDocument)
	rec := do(t, server, http.MethodPost, "/paths", `{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}, "maxDrop": -1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit: status is %v. Should be %v", rec.Code, http.StatusBadRequest)
	}
}

func TestSetNavigator(t *testing.T) {
	server := newTestServer(t)
	do(t, server, http.MethodPut, "/grid", wallDocument)
	if rec := do(t, server, http.MethodPost, "/navigator", `{"navigator": "dijkstra"}`); rec.Code != http.StatusOK {
		t.Fatalf("status is %v", rec.Code)
	}
	rec := do(t, server, http.MethodPost, "/paths", `{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}}`)
	var result PathResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Navigator != "dijkstra" || result.Cost != 40 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestComputePathGeoJson(t *testing.T) {
	server := newTestServer(t)
	do(t, server, http.MethodPut, "/grid", wallDocument)

	rec := do(t, server, http.MethodPost, "/paths/geojson", `{"start": {"x": 0, "y": 0}, "end": {"x": 2, "y": 0}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status is %v: %v", rec.Code, rec.Body.String())
	}
	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("collection has %v features. Should be 3", len(fc.Features))
	}
	line, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("first feature is %T. Should be a line string", fc.Features[0].Geometry)
	}
	if len(line) != 5 || line[0] != (orb.Point{0, 0}) || line[4] != (orb.Point{2, 0}) {
		t.Errorf("line string is %v", line)
	}

	// no line string without a path
	rec = do(t, server, http.MethodPost, "/paths/geojson", `{"start": {"x": 0, "y": 0}, "end": {"x": 1, "y": 0}}`)
	fc, err = geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("collection has %v features. Should be 2", len(fc.Features))
	}
}

func TestRequestIdAndMetrics(t *testing.T) {
	server := newTestServer(t)

	rec := do(t, server, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status is %v", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pathfinding_grid_replacements_total") {
		t.Errorf("metrics do not contain the router metrics")
	}
	if _, err := uuid.Parse(rec.Header().Get(RequestIdHeader)); err != nil {
		t.Errorf("response has no valid request id: %v", err)
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/grid", nil)
	req.Header.Set(RequestIdHeader, id)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIdHeader) != id {
		t.Errorf("request id is %q. Should be %q", rec.Header().Get(RequestIdHeader), id)
	}
}
