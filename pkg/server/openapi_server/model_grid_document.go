// SPDX-License-Identifier: MIT

package openapi_server

// GridDocument describes a grid row by row: tile rows use 'X' (blocked), '.' (open) and 'I' (interactive)
type GridDocument struct {
	Tiles   []string    `json:"tiles"`
	Heights [][]float64 `json:"heights"`
}

// AssertGridDocumentRequired checks if the required fields are not zero-ed
func AssertGridDocumentRequired(obj GridDocument) error {
	elements := map[string]interface{}{
		"tiles":   obj.Tiles,
		"heights": obj.Heights,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	return nil
}
