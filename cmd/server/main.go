// Command server runs the umlgen HTTP server for container deployments.
// Settings come from UMLGEN_* environment variables and an optional
// umlgen.yaml in the working directory.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/umlgen/internal/app"
	"github.com/matthewbaird/umlgen/internal/config"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, err := config.New("")
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	e, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Logger.Fatalw("opening model", "error", err)
	}
	defer e.Close()

	if err := server.Run(ctx, e.ServerConfig(cfg.Server.Port)); err != nil {
		logger.Logger.Fatalw("server error", "error", err)
	}
}
