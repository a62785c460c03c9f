package openapi_server

import (
	"encoding/json"
	"net/http"
	"strings"
)

// DefaultApiController binds http requests to an api service and writes the service results to the http response
type DefaultApiController struct {
	service      DefaultApiServicer
	errorHandler ErrorHandler
}

// DefaultApiOption for how the controller is set up.
type DefaultApiOption func(*DefaultApiController)

// WithDefaultApiErrorHandler inject ErrorHandler into controller
func WithDefaultApiErrorHandler(h ErrorHandler) DefaultApiOption {
	return func(c *DefaultApiController) {
		c.errorHandler = h
	}
}

// NewDefaultApiController creates a default api controller
func NewDefaultApiController(s DefaultApiServicer, opts ...DefaultApiOption) Router {
	controller := &DefaultApiController{
		service:      s,
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Routes returns all of the api route for the DefaultApiController
func (c *DefaultApiController) Routes() Routes {
	return Routes{
		{
			"ComputePath",
			strings.ToUpper("Post"),
			"/paths",
			c.ComputePath,
		},
		{
			"ComputePathGeoJson",
			strings.ToUpper("Post"),
			"/paths/geojson",
			c.ComputePathGeoJson,
		},
		{
			"GetGrid",
			strings.ToUpper("Get"),
			"/grid",
			c.GetGrid,
		},
		{
			"SetGrid",
			strings.ToUpper("Put"),
			"/grid",
			c.SetGrid,
		},
		{
			"SetNavigator",
			strings.ToUpper("Post"),
			"/navigator",
			c.SetNavigator,
		},
	}
}

func allowCors(w http.ResponseWriter, method string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", method)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func decodePathRequest(r *http.Request) (PathRequest, error) {
	pathRequestParam := PathRequest{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&pathRequestParam); err != nil {
		return pathRequestParam, &ParsingError{Err: err}
	}
	if err := AssertPathRequestRequired(pathRequestParam); err != nil {
		return pathRequestParam, err
	}
	return pathRequestParam, nil
}

// ComputePath - Compute the path between two tiles
func (c *DefaultApiController) ComputePath(w http.ResponseWriter, r *http.Request) {
	pathRequestParam, err := decodePathRequest(r)
	if err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.ComputePath(r.Context(), pathRequestParam)
	// If an error occurred, encode the error with the status code
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	// If no error, encode the body and the result code
	allowCors(w, "POST")
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// ComputePathGeoJson - Compute the path between two tiles as a GeoJSON feature collection
func (c *DefaultApiController) ComputePathGeoJson(w http.ResponseWriter, r *http.Request) {
	pathRequestParam, err := decodePathRequest(r)
	if err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.ComputePathGeoJson(r.Context(), pathRequestParam)
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	allowCors(w, "POST")
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// GetGrid - Dimensions and version of the current grid
func (c *DefaultApiController) GetGrid(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetGrid(r.Context())
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	allowCors(w, "GET")
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// SetGrid - Replace the grid
func (c *DefaultApiController) SetGrid(w http.ResponseWriter, r *http.Request) {
	gridDocumentParam := GridDocument{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&gridDocumentParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	if err := AssertGridDocumentRequired(gridDocumentParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.SetGrid(r.Context(), gridDocumentParam)
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	allowCors(w, "PUT")
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// SetNavigator - Select the search algorithm
func (c *DefaultApiController) SetNavigator(w http.ResponseWriter, r *http.Request) {
	navigatorRequestParam := NavigatorRequest{}
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()
	if err := d.Decode(&navigatorRequestParam); err != nil {
		c.errorHandler(w, r, &ParsingError{Err: err}, nil)
		return
	}
	if err := AssertNavigatorRequestRequired(navigatorRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.SetNavigator(r.Context(), navigatorRequestParam)
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	allowCors(w, "POST")
	EncodeJSONResponse(result.Body, &result.Code, w)
}
