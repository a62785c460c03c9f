package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	"github.com/natevvv/tile-pathfinding/pkg/routing"
	server "github.com/natevvv/tile-pathfinding/pkg/server/openapi_server"
)

func main() {
	addr := flag.String("addr", ":8081", "Listen address")
	gridFile := flag.String("grid", "", "Grid file loaded at startup (optional, PUT /grid replaces it)")
	navigator := flag.String("navigator", "astar", "Search algorithm (astar, dijkstra)")
	cacheDir := flag.String("cache-dir", "", "Directory of the path cache (disabled if empty)")
	cacheMemory := flag.Bool("cache-memory", false, "Keep the path cache in memory")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := []routing.Option{routing.WithNavigator(*navigator)}
	if *cacheDir != "" || *cacheMemory {
		cache, err := routing.NewBadgerCache(*cacheDir, *cacheMemory)
		if err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
		opts = append(opts, routing.WithCache(cache))
	}

	router, err := routing.NewRouter(opts...)
	if err != nil {
		log.Fatal(err)
	}

	if *gridFile != "" {
		g, err := grid.ReadGridFile(*gridFile)
		if err != nil {
			log.Fatal(err)
		}
		router.PublishGrid(g)
	}

	DefaultApiService := server.NewDefaultApiService(router)
	DefaultApiController := server.NewDefaultApiController(DefaultApiService)

	handler := server.NewRouter(DefaultApiController, server.NewMetricsController())

	slog.Info("server started", slog.String("addr", *addr), slog.String("navigator", router.Navigator()))
	if err := http.ListenAndServe(*addr, handler); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
