// SPDX-License-Identifier: MIT

package openapi_server

type PathResult struct {
	Start     Point  `json:"start"`
	End       Point  `json:"end"`
	Navigator string `json:"navigator"`
	// one of found, trivial, unreachable, blocked_destination, out_of_bounds
	Outcome   string `json:"outcome"`
	Reachable bool   `json:"reachable"`
	Cost      int32  `json:"cost"`
	// tiles to traverse, excluding start and including end
	Path          []Point `json:"path"`
	ExpandedNodes int32   `json:"expandedNodes"`
}
