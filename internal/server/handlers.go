package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tubeserve/tubeserve/internal/downloader"
	"github.com/tubeserve/tubeserve/internal/extractor"
	"github.com/tubeserve/tubeserve/internal/media"
	"github.com/tubeserve/tubeserve/internal/version"
)

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "tubeserve",
		"status":  "running",
		"version": version.Version,
		"backend": s.ext.Name(),
		"endpoints": gin.H{
			"info":       "/info?url=VIDEO_URL",
			"video_info": "/video-info?url=VIDEO_URL",
			"download":   "/download?url=VIDEO_URL&quality=best",
			"stream":     "/stream?url=VIDEO_URL&quality=best",
			"health":     "/health",
			"history":    "/api/history",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "tubeserve"})
}

// handleInfo returns full metadata with normalized formats. Failures are hard
// errors here; clients wanting a degraded answer use /video-info.
func (s *Server) handleInfo(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "url parameter required"})
		return
	}

	info, err := s.ext.Probe(c.Request.Context(), rawURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "Failed to extract info: " + err.Error()})
		return
	}

	info.Formats = media.NormalizeFormats(info.Formats, media.InfoFormatCap)
	c.JSON(http.StatusOK, infoResponse{Success: true, URL: rawURL, VideoInfo: info})
}

// handleVideoInfo is the lean, never-failing variant: extraction errors still
// produce a 200 with fallback links so embedding pages can keep working.
func (s *Server) handleVideoInfo(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "url parameter required"})
		return
	}

	info, err := s.ext.Probe(c.Request.Context(), rawURL)
	if err != nil {
		c.JSON(http.StatusOK, leanInfoResponse{
			Error:        err.Error(),
			FallbackURLs: media.FallbackLinks(rawURL),
		})
		return
	}

	// The scrape backend synthesizes a fixed format table that includes an
	// audio row; pass it through untouched.
	if s.ext.Name() != "scrape" {
		info.Formats = media.NormalizeFormats(info.Formats, media.LeanFormatCap)
	}
	c.JSON(http.StatusOK, leanInfoResponse{Success: true, VideoInfo: info})
}

// handleDownload fetches the selected rendition and serves it as an
// attachment. Backends that cannot fetch bytes degrade to a link answer.
func (s *Server) handleDownload(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "url parameter required"})
		return
	}
	quality := c.DefaultQuery("quality", "best")
	sel := media.ParseQuality(quality)
	started := time.Now()

	file, cleanup, err := s.dl.Fetch(c.Request.Context(), rawURL, sel)
	if errors.Is(err, extractor.ErrFetchUnsupported) {
		links := media.DownloadLinks(rawURL, quality)
		c.JSON(http.StatusOK, linkResponse{
			Success:         true,
			DownloadURL:     links[0],
			AlternativeURLs: links[1:],
			Quality:         quality,
		})
		return
	}
	if err != nil {
		s.record(Record{
			ID:        newID(),
			URL:       rawURL,
			Quality:   quality,
			Backend:   s.ext.Name(),
			Status:    "failed",
			StartedAt: started.Unix(),
			Error:     err.Error(),
		})
		c.JSON(http.StatusInternalServerError, errorDetail{
			Detail:       "Download failed: " + err.Error(),
			FallbackURLs: media.FallbackLinks(rawURL),
		})
		return
	}
	defer cleanup()

	name := downloader.Filename(file.Title, file.Ext)
	s.record(Record{
		ID:          newID(),
		URL:         rawURL,
		Filename:    name,
		Quality:     quality,
		Backend:     s.ext.Name(),
		Status:      "completed",
		SizeBytes:   file.Size,
		StartedAt:   started.Unix(),
		CompletedAt: time.Now().Unix(),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Length", strconv.FormatInt(file.Size, 10))
	c.Header("Content-Type", downloader.ContentType(file.Ext))
	c.File(file.Path)
}

// handleStream resolves a direct media URL without proxying any bytes.
func (s *Server) handleStream(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "url parameter required"})
		return
	}
	quality := c.DefaultQuery("quality", "best")

	stream, err := s.ext.StreamURL(c.Request.Context(), rawURL, media.ParseQuality(quality))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorDetail{Detail: "Stream URL extraction failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, streamResponse{
		Success:        true,
		StreamURL:      stream.URL,
		Title:          stream.Title,
		Duration:       stream.Duration,
		Quality:        quality,
		DirectDownload: true,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, errorDetail{Detail: "history disabled"})
		return
	}

	limit := queryInt(c, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.history.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorDetail{Detail: "Failed to read history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, historyResponse{Records: records, Total: total, Limit: limit, Offset: offset})
}

func (s *Server) handleHistoryStats(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusServiceUnavailable, errorDetail{Detail: "history disabled"})
		return
	}

	completed, failed, totalBytes, err := s.history.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorDetail{Detail: "Failed to read history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, historyStatsResponse{Completed: completed, Failed: failed, TotalBytes: totalBytes})
}

// record persists a history row; failures are logged, never surfaced to the
// download response.
func (s *Server) record(rec Record) {
	if s.history == nil {
		return
	}
	if err := s.history.Add(rec); err != nil {
		s.log.Warn("history write failed", "error", err)
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func newID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
