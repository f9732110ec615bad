package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights"
	"github.com/aretw0/highlights/internal/platform"
	"github.com/aretw0/highlights/internal/server"
	"github.com/aretw0/highlights/pkg/adapters/lifecycle"
	"github.com/aretw0/highlights/pkg/core"
)

var (
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the capture server",
	Long: `Start the HTTP server the browser extension posts captures to.

Endpoints:
  POST /save-text          capture {"text","url","includeLink"}
  POST /api/v1/captures    same as /save-text
  GET  /api/v1/notes       list note dates
  GET  /api/v1/notes/:id   raw markdown of one note
  GET  /health, /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		logger := slog.Default()
		dir := platform.ExpandHome(cfg.NotesDir)
		svc, err := highlights.New(dir,
			highlights.WithLogger(logger),
			highlights.WithLocation(loc),
			highlights.WithWatcherErrorHandler(func(err error) {
				logger.Error("notes watcher stopped", "error", err)
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to open notes: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveWatch {
			if err := logExternalEdits(ctx, svc, dir, logger); err != nil {
				logger.Warn("not watching notes directory", "error", err)
			}
		}

		srv, err := server.New(svc, logger, server.Config{
			Addr:        cfg.Addr(),
			CORSOrigins: cfg.Server.CORSOrigins,
		}, nil)
		if err != nil {
			return err
		}

		logger.Info("serving highlights", "notes_dir", dir, "timezone", loc.String())
		return srv.Run(ctx)
	},
}

// logExternalEdits logs notes changed on disk by anything but this server.
func logExternalEdits(ctx context.Context, svc *core.Service, dir string, logger *slog.Logger) error {
	events, err := svc.Watch(ctx)
	if err != nil {
		return err
	}

	src := lifecycle.NewSource(events, lifecycle.WithDir(dir))
	if err := src.Start(ctx); err != nil {
		return err
	}

	go func() {
		for e := range src.Events() {
			logger.Info("note changed on disk", "event", e.String())
		}
	}()
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Interface to listen on (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Log notes edited outside the server")
}
