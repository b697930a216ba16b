package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/app"
	"github.com/matthewbaird/umlgen/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Serve the HTTP API and the WebSocket shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := app.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}
		return server.Run(ctx, e.ServerConfig(port))
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides server.port)")
}
