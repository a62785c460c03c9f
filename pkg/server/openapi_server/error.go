// SPDX-License-Identifier: MIT

package openapi_server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/grid/path"
)

var (
	// ErrTypeAssertionError is thrown when type an interface does not match the asserted type
	ErrTypeAssertionError = errors.New("unable to assert type")
)

// ParsingError indicates that an error has occurred when parsing request parameters
type ParsingError struct {
	Err error
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

func (e *ParsingError) Error() string {
	return e.Err.Error()
}

// RequiredError indicates that an error has occurred when parsing request parameters
type RequiredError struct {
	Field string
}

func (e *RequiredError) Error() string {
	return fmt.Sprintf("required field '%s' is zero value.", e.Field)
}

// ErrorHandler defines the required method for handling error. You may implement it and inject this into a controller if
// you would like errors to be handled differently from the DefaultErrorHandler
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse)

// invalid input of the domain, reported as a bad request
var badRequestErrors = []error{
	path.ErrInvalidStepLimit,
	grid.ErrEmptyGrid,
	grid.ErrRaggedGrid,
	grid.ErrDimensionMismatch,
	grid.ErrGridTooLarge,
	grid.ErrInvalidTile,
	grid.ErrInvalidHeight,
}

// DefaultErrorHandler defines the default logic on how to handle errors from the controller. Any errors from parsing
// request params will return a StatusBadRequest. Otherwise, the error code originating from the servicer will be used.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse) {
	var parsingErr *ParsingError
	if ok := errors.As(err, &parsingErr); ok {
		// Handle parsing errors
		EncodeJSONResponse(err.Error(), func(i int) *int { return &i }(http.StatusBadRequest), w)
		return
	}

	var requiredErr *RequiredError
	if ok := errors.As(err, &requiredErr); ok {
		// Handle missing required errors
		EncodeJSONResponse(err.Error(), func(i int) *int { return &i }(http.StatusUnprocessableEntity), w)
		return
	}

	if errors.Is(err, grid.ErrNoGrid) {
		EncodeJSONResponse(err.Error(), func(i int) *int { return &i }(http.StatusConflict), w)
		return
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			EncodeJSONResponse(err.Error(), func(i int) *int { return &i }(http.StatusBadRequest), w)
			return
		}
	}

	code := http.StatusInternalServerError
	if result != nil && result.Code != 0 {
		code = result.Code
	}
	EncodeJSONResponse(err.Error(), &code, w)
}
