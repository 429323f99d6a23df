package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AndyRamoss/Invitacion-Andy/internal/config"
	"github.com/AndyRamoss/Invitacion-Andy/internal/interfaces/router"
	"github.com/AndyRamoss/Invitacion-Andy/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	app, deps, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := deps.Rdb.Ping(ctx).Err(); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	cancel()
	log.Info().Str("env", cfg.Env).Bool("events", deps.Bus.Connected()).Msg("database and redis connected")

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("port", cfg.Port).Msgf("server running at http://localhost:%s, health at /health/json", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
