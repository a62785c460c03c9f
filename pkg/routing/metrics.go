package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queriesTotal counts path queries by navigator and outcome
	// Outcomes: "found", "trivial", "unreachable", "blocked_destination", "out_of_bounds"
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pathfinding_queries_total",
		Help: "Total path queries by navigator and outcome",
	}, []string{"navigator", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pathfinding_query_duration_seconds",
		Help:    "Path search duration, cache hits excluded",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"navigator"})

	expandedNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pathfinding_expanded_nodes",
		Help:    "Nodes expanded per path search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"navigator"})

	gridReplacements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pathfinding_grid_replacements_total",
		Help: "Number of published grids",
	})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pathfinding_cache_requests_total",
		Help: "Path cache lookups by result",
	}, []string{"result"})
)
