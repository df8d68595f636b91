package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/server"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/config.yaml", "Path to game/server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	telnetAddr := flag.String("addr", "", "Telnet listen address (overrides config)")
	httpAddr := flag.String("http", "", "HTTP/WebSocket listen address (overrides config)")
	dbFile := flag.String("db", "", "Path to SQLite database file (overrides config)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting OpenScroller level server")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
		cfg = config.DefaultConfig()
	}
	if *telnetAddr != "" {
		cfg.Server.TelnetAddr = *telnetAddr
	}
	if *httpAddr != "" {
		cfg.Server.HTTPAddr = *httpAddr
	}
	if *dbFile != "" {
		cfg.Database.Driver = "sqlite"
		cfg.Database.SQLitePath = *dbFile
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Info("Database initialized", "driver", db.Dialect().DriverName())

	origins := cfg.Server.WebSocket.AllowedOrigins
	if len(origins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(origins) == 1 && origins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", origins)
	}

	srv := server.NewServer(cfg, db)

	// Start telnet server in a goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Telnet server error: %v", err)
		}
	}()

	// Start HTTP server in a goroutine
	go func() {
		if err := srv.StartHTTP(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Level server running", "telnet", cfg.Server.TelnetAddr, "http", cfg.Server.HTTPAddr)
	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}
