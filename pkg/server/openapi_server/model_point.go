// SPDX-License-Identifier: MIT

package openapi_server

// Point is a tile coordinate. Negative values are accepted and are out of bounds of every grid.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// AssertPointRequired checks if the required fields are not zero-ed
func AssertPointRequired(obj Point) error {
	return nil
}
