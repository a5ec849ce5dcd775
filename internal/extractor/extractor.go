// Package extractor defines the extraction capability behind the HTTP and CLI
// surfaces. A backend answers three questions about a video URL: what is it
// (Probe), give me the bytes (Fetch), give me a direct link (StreamURL).
package extractor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tubeserve/tubeserve/internal/media"
)

// MediaFile is a fetched rendition written to disk by Fetch.
type MediaFile struct {
	Path  string
	Size  int64
	Ext   string
	Title string
}

// Extractor is implemented by each extraction backend.
type Extractor interface {
	Name() string

	// Probe returns metadata without downloading anything.
	Probe(ctx context.Context, rawURL string) (*media.VideoInfo, error)

	// Fetch downloads the rendition matching sel into dir and returns the
	// resulting file. Backends that only resolve links return
	// ErrFetchUnsupported.
	Fetch(ctx context.Context, rawURL string, sel media.Selection, dir string) (*MediaFile, error)

	// StreamURL resolves a direct, typically time-limited media URL for the
	// rendition matching sel.
	StreamURL(ctx context.Context, rawURL string, sel media.Selection) (*media.StreamInfo, error)
}

// Options configures backend construction.
type Options struct {
	// YtdlpPath overrides the yt-dlp binary location ("yt-dlp" on $PATH
	// by default).
	YtdlpPath string

	// Timeout bounds every oracle invocation (network call or subprocess).
	Timeout time.Duration
}

// DefaultTimeout matches the subprocess variant's fixed bound.
const DefaultTimeout = 30 * time.Second

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// backends maps backend names to their constructors
var backends = map[string]func(Options) Extractor{}

func register(name string, fn func(Options) Extractor) {
	backends[name] = fn
}

// New builds the named backend. An empty name selects "native".
func New(name string, opts Options) (Extractor, error) {
	if name == "" {
		name = "native"
	}
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor backend %q (have %v)", name, Backends())
	}
	return fn(opts), nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
