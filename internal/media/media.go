// Package media holds the backend-neutral video metadata model and the
// quality/format resolution logic shared by the HTTP and CLI surfaces.
package media

// Format caps for the two response envelopes.
const (
	InfoFormatCap = 10
	LeanFormatCap = 5
)

// Format is a single downloadable rendition reported by a backend.
// Height 0 means audio-only or unknown.
type Format struct {
	FormatID string `json:"format_id"`
	Quality  string `json:"quality"`
	Height   int    `json:"height"`
	Ext      string `json:"ext"`
	Filesize int64  `json:"filesize,omitempty"`
	HasVideo bool   `json:"-"`
}

// VideoInfo is the normalized per-request metadata envelope.
// Missing fields stay at their zero values rather than failing the request.
type VideoInfo struct {
	ID          string   `json:"video_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Duration    int      `json:"duration"`
	Thumbnail   string   `json:"thumbnail"`
	Uploader    string   `json:"uploader,omitempty"`
	ViewCount   int64    `json:"view_count,omitempty"`
	Formats     []Format `json:"formats"`
}

// StreamInfo is a resolved direct media URL for one rendition.
type StreamInfo struct {
	URL      string
	Title    string
	Duration int
}
