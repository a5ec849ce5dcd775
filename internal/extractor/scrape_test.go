package extractor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/tubeserve/tubeserve/internal/media"
)

func mediaSelection() media.Selection {
	return media.ParseQuality("best")
}

// titleTransport serves a canned watch page for any request.
type titleTransport struct {
	status int
	body   string
	err    error
}

func (t *titleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.err != nil {
		return nil, t.err
	}
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func scrapeWith(t *titleTransport) *scrapeExtractor {
	return &scrapeExtractor{client: &http.Client{Transport: t}}
}

func TestScrapeProbe(t *testing.T) {
	e := scrapeWith(&titleTransport{
		status: http.StatusOK,
		body:   `<html><head><title>My Clip - YouTube</title></head><body></body></html>`,
	})

	info, err := e.Probe(context.Background(), "https://www.youtube.com/watch?v=ABC123")
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "ABC123" {
		t.Errorf("ID = %q", info.ID)
	}
	if info.Title != "My Clip" {
		t.Errorf("Title = %q, want site suffix stripped", info.Title)
	}
	if want := "https://i.ytimg.com/vi/ABC123/hqdefault.jpg"; info.Thumbnail != want {
		t.Errorf("Thumbnail = %q, want %q", info.Thumbnail, want)
	}
	if len(info.Formats) != 4 {
		t.Errorf("got %d formats, want fixed 4", len(info.Formats))
	}
}

func TestScrapeProbeDegradesToPlaceholder(t *testing.T) {
	tests := []struct {
		name      string
		transport *titleTransport
	}{
		{"network failure", &titleTransport{err: errors.New("connection refused")}},
		{"non-200", &titleTransport{status: http.StatusTooManyRequests, body: "slow down"}},
		{"no title tag", &titleTransport{status: http.StatusOK, body: "<html><body>nope</body></html>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := scrapeWith(tt.transport)
			info, err := e.Probe(context.Background(), "https://youtu.be/XYZ789")
			if err != nil {
				t.Fatalf("scrape failures must degrade, got error: %v", err)
			}
			if info.Title != "Video XYZ789" {
				t.Errorf("Title = %q, want placeholder", info.Title)
			}
		})
	}
}

func TestScrapeProbeRejectsUnrecognizedURL(t *testing.T) {
	e := scrapeWith(&titleTransport{status: http.StatusOK})
	_, err := e.Probe(context.Background(), "https://example.com/nope")
	if !errors.Is(err, ErrNoVideoID) {
		t.Errorf("err = %v, want ErrNoVideoID", err)
	}
}

func TestScrapeCannotFetch(t *testing.T) {
	e := scrapeWith(&titleTransport{})
	_, err := e.Fetch(context.Background(), "https://youtu.be/XYZ789", mediaSelection(), t.TempDir())
	if !errors.Is(err, ErrFetchUnsupported) {
		t.Errorf("Fetch err = %v, want ErrFetchUnsupported", err)
	}
	_, err = e.StreamURL(context.Background(), "https://youtu.be/XYZ789", mediaSelection())
	if !errors.Is(err, ErrFetchUnsupported) {
		t.Errorf("StreamURL err = %v, want ErrFetchUnsupported", err)
	}
}

func TestHTMLTitleNested(t *testing.T) {
	body := `<html><head><meta charset="utf-8"><title>Catchy &amp; Short</title></head></html>`
	if got := htmlTitle(strings.NewReader(body)); got != "Catchy & Short" {
		t.Errorf("htmlTitle = %q", got)
	}
}
