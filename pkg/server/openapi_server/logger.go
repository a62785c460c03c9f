// SPDX-License-Identifier: MIT

package openapi_server

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger logs every request handled by inner
func Logger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		inner.ServeHTTP(w, r)

		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("uri", r.RequestURI),
			slog.String("route", name),
			slog.String("request_id", RequestIdFromContext(r.Context())),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
