// SPDX-License-Identifier: MIT

package openapi_server

type GridInfo struct {
	Width   int32  `json:"width"`
	Height  int32  `json:"height"`
	Version uint64 `json:"version"`
}
