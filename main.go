package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cmarchi/cartaz/internal/catalog"
	"github.com/cmarchi/cartaz/internal/config"
	"github.com/cmarchi/cartaz/internal/logging"
	"github.com/cmarchi/cartaz/internal/server"
	"github.com/cmarchi/cartaz/internal/source"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "cartaz.yaml", "path to config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	src := flag.String("source", "", "event source URL or file (overrides config)")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		logging.Error().Err(err).Str("path", *configPath).Msg("failed to load config")
		os.Exit(1)
	}
	if *listen != "" {
		conf.Listen = *listen
	}
	if *src != "" {
		conf.Source = *src
	}

	logging.Setup(conf.LogLevel, conf.LogFormat)
	logging.Info().
		Str("listen", conf.Listen).
		Str("source", conf.Source).
		Str("format", conf.SourceFormat).
		Int("refresh_minutes", conf.RefreshMinutes).
		Int("page_size", conf.PageSize).
		Msg("cartaz starting")

	store := catalog.New()
	loader := source.New(store, conf.Source, source.ParseFormat(conf.SourceFormat))

	// A failed initial load is not fatal: the service starts with an
	// empty catalog and a later refresh can still succeed.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	n, err := loader.Load(ctx)
	cancel()
	if err != nil {
		logging.Warn().Err(err).Msg("initial load failed, starting with empty catalog")
	} else {
		logging.Info().Int("events", n).Msg("catalog loaded")
	}

	if conf.RefreshMinutes > 0 {
		poller := source.NewPoller(loader, time.Duration(conf.RefreshMinutes)*time.Minute)
		poller.Start()
		defer poller.Stop()
	}

	srv, err := server.New(store, loader, conf.PageSize)
	if err != nil {
		logging.Error().Err(err).Msg("failed to create server")
		os.Exit(1)
	}
	if err := srv.Start(conf.Listen); err != nil {
		logging.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
