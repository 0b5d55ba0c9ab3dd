package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bjesuiter/github-light/internal/api"
	"github.com/bjesuiter/github-light/internal/auth"
	"github.com/bjesuiter/github-light/internal/cache"
	"github.com/bjesuiter/github-light/internal/config"
	"github.com/bjesuiter/github-light/internal/storage"
	"github.com/bjesuiter/github-light/internal/storage/postgres"
	"github.com/bjesuiter/github-light/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize session storage
	var store storage.SessionStore
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewSessionStore(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL session store: %v", err)
		}
	default:
		store, err = sqlite.NewSessionStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite session store: %v", err)
		}
	}
	defer store.Close()

	// Initialize auth gateway
	gateway := auth.NewGateway(cfg, store)

	// Initialize handler
	handler := api.NewHandler(gateway, cache.NewProjectsCache())

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Storage type: %s\n", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
