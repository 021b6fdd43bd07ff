package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"switchbridge/pkg/api"
	"switchbridge/pkg/bridge"
	"switchbridge/pkg/config"
	"switchbridge/pkg/mcp"
	"switchbridge/pkg/schema"
	"switchbridge/pkg/store"
	"switchbridge/pkg/switchbot"

	_ "switchbridge/docs"
)

// @title           SwitchBridge API
// @version         1.0
// @description     REST API for controlling SwitchBot devices through the cloud

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	configPath := flag.String("config", "config.json", "Path to configuration file")
	dbPath := flag.String("db", "", "Path to device cache database (default: ~/.config/switchbridge/switchbridge.db)")
	addr := flag.String("addr", "0.0.0.0:8080", "API listen address")
	withMCP := flag.Bool("mcp", false, "Serve MCP tools on stdio instead of the REST API")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

	log.Info().
		Int("refresh_rate", cfg.Options.RefreshRate).
		Float64("push_rate", cfg.Options.PushRate).
		Msg("Configuration loaded")

	// Open device cache
	cache, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open device cache")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close device cache")
		}
	}()

	log.Info().Str("path", cache.Path()).Msg("Device cache opened")

	if err := cache.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run cache migrations")
	}

	// Vendor client and discovery
	client := switchbot.NewClient(cfg.Credentials.OpenToken)

	recorder := cache.NewStateRecorder()
	registry := bridge.NewRegistry()
	if err := registry.Discover(ctx, cfg, client, recorder); err != nil {
		log.Fatal().Err(err).Msg("Device discovery failed")
	}

	log.Info().Int("devices", registry.Len()).Msg("Discovery complete")

	// Persist the roster so a future start can serve cached state
	var infos []bridge.DeviceInfo
	for _, e := range registry.List() {
		infos = append(infos, e.Controller.Info())
	}
	if err := recorder.CacheRoster(ctx, infos); err != nil {
		log.Warn().Err(err).Msg("Failed to cache device roster")
	}

	// Surface last-known values until the first poll lands
	if states, err := recorder.LoadStates(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to load cached device states")
	} else {
		for _, e := range registry.List() {
			if state, ok := states[e.Controller.Info().ID]; ok {
				e.Controller.Seed(state)
			}
		}
	}

	registry.StartAll(ctx)
	defer registry.Close()

	validator := schema.NewValidator()

	if *withMCP {
		log.Info().Msg("Starting MCP server on stdio")
		if err := mcp.NewServer(registry, validator).ServeStdio(); err != nil {
			log.Fatal().Err(err).Msg("MCP server failed")
		}
		return
	}

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		registry.Close()
		if err := cache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close device cache")
		}
		os.Exit(0)
	}()

	// Start server
	router := api.NewRouter(registry, validator)
	log.Info().Str("address", *addr).Msg("Starting API server")

	if err := router.Run(*addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
