package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"switchbridge/pkg/bridge"
	"switchbridge/pkg/config"
	bridgemcp "switchbridge/pkg/mcp"
	"switchbridge/pkg/schema"
	"switchbridge/pkg/store"
	"switchbridge/pkg/switchbot"
)

func main() {
	// Logging must go to stderr: stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	configPath := flag.String("config", "config.json", "Path to configuration file")
	dbPath := flag.String("db", "", "Path to device cache database (default: ~/.config/switchbridge/switchbridge.db)")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

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

	// Create and start MCP server
	mcpServer := bridgemcp.NewServer(registry, validator)

	log.Info().Int("devices", registry.Len()).Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
