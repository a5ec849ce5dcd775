package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tubeserve/tubeserve/internal/config"
	"github.com/tubeserve/tubeserve/internal/server"
)

var (
	servePort    int
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Endpoints:
  GET /info?url=...                full metadata with normalized formats
  GET /video-info?url=...          lean metadata, degrades with fallback links
  GET /download?url=...&quality=   fetch and serve the media file
  GET /stream?url=...&quality=     resolve a direct media URL
  GET /api/history                 download history
  GET /health                      liveness probe

Settings come from the config file, TUBESERVE_* environment variables and
flags, in increasing precedence.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-history", false, "disable the download history database")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.LoadOrDefault()
	if servePort > 0 {
		cfg.Port = servePort
	}
	if backend != "" {
		cfg.Backend = backend
	}

	log := newLogger(cfg)

	ext, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	var history *server.HistoryDB
	if !serveNoStore {
		path, err := server.DefaultHistoryPath()
		if err != nil {
			log.Warn("history disabled", "error", err)
		} else if history, err = server.OpenHistory(path); err != nil {
			log.Warn("history disabled", "error", err)
			history = nil
		}
	}
	if history != nil {
		defer history.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, ext, history, log).Run(ctx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	if cfg.LogJSON {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	return slog.New(handler)
}
