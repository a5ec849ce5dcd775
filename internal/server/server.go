// Package server exposes the extraction service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tubeserve/tubeserve/internal/config"
	"github.com/tubeserve/tubeserve/internal/downloader"
	"github.com/tubeserve/tubeserve/internal/extractor"
)

const shutdownGrace = 25 * time.Second

// Server routes the info/download/stream operations to an extraction backend.
type Server struct {
	cfg     *config.Config
	ext     extractor.Extractor
	dl      *downloader.Downloader
	history *HistoryDB // nil disables history recording
	log     *slog.Logger
	engine  *gin.Engine
}

// New assembles the HTTP layer. history may be nil.
func New(cfg *config.Config, ext extractor.Extractor, history *HistoryDB, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:     cfg,
		ext:     ext,
		dl:      downloader.New(ext),
		history: history,
		log:     log,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.logRequests(), cors())
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.engine
	e.GET("/", s.handleIndex)
	e.GET("/health", s.handleHealth)
	e.GET("/info", s.handleInfo)
	e.GET("/video-info", s.handleVideoInfo)
	e.GET("/download", s.handleDownload)
	e.GET("/stream", s.handleStream)
	e.GET("/api/history", s.handleHistory)
	e.GET("/api/history/stats", s.handleHistoryStats)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.cfg.Port),
		Handler:     s.engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "port", s.cfg.Port, "backend", s.ext.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cors answers every request with wide-open cross-origin headers; OPTIONS
// preflights get the headers and no body.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/health" {
			return
		}
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
