package server

import (
	"github.com/tubeserve/tubeserve/internal/media"
)

// errorDetail is the envelope for hard failures (4xx/5xx).
type errorDetail struct {
	Detail       string            `json:"detail"`
	FallbackURLs map[string]string `json:"fallback_urls,omitempty"`
}

// infoResponse wraps full metadata for /info.
type infoResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	*media.VideoInfo
}

// leanInfoResponse is the degraded-tolerant envelope for /video-info.
// It always answers 200; Success distinguishes the two shapes.
type leanInfoResponse struct {
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
	FallbackURLs map[string]string `json:"fallback_urls,omitempty"`
	*media.VideoInfo
}

// linkResponse is the /download answer when the active backend can only
// resolve links instead of fetching bytes.
type linkResponse struct {
	Success         bool     `json:"success"`
	DownloadURL     string   `json:"download_url"`
	AlternativeURLs []string `json:"alternative_urls"`
	Quality         string   `json:"quality"`
}

// streamResponse carries a resolved direct media URL.
type streamResponse struct {
	Success        bool   `json:"success"`
	StreamURL      string `json:"stream_url"`
	Title          string `json:"title"`
	Duration       int    `json:"duration"`
	Quality        string `json:"quality"`
	DirectDownload bool   `json:"direct_download"`
}

// historyResponse pages through recorded downloads.
type historyResponse struct {
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// historyStatsResponse aggregates the history table.
type historyStatsResponse struct {
	Completed  int   `json:"completed"`
	Failed     int   `json:"failed"`
	TotalBytes int64 `json:"total_bytes"`
}
