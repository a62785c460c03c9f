// SPDX-License-Identifier: MIT

package openapi_server

type PathRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	// maximum descent per step
	MaxDrop float64 `json:"maxDrop"`
	// maximum ascent per step
	MaxJump float64 `json:"maxJump"`
}

// AssertPathRequestRequired checks if the required fields are not zero-ed
func AssertPathRequestRequired(obj PathRequest) error {
	if err := AssertPointRequired(obj.Start); err != nil {
		return err
	}
	if err := AssertPointRequired(obj.End); err != nil {
		return err
	}
	return nil
}
