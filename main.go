package main

import (
	"context"
	"fmt"
	"os"

	"anchor-status/config"
	"anchor-status/di"
	"anchor-status/util"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	util.ConfigureLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := di.NewContainer(ctx, cfg)
	defer container.Close()

	log.Info().Dur("interval", cfg.PollInterval).Str("timezone", cfg.VenueTimezone).Msg("[Main] Starting status poller")
	container.StatusPoller.Start(ctx)

	if err := container.StatusHttpServer.Start(ctx); err != nil {
		log.Error().Err(err).Msg("[Main] Server stopped with error")
		return
	}
	log.Info().Msg("[Main] Bye")
}
