package extractor

import (
	"context"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/tubeserve/tubeserve/internal/media"
)

const scrapeUserAgent = "Mozilla/5.0"

// scrapeExtractor is the zero-dependency best-effort backend: it derives what
// it can from the watch page itself and synthesizes the rest from known URL
// templates. It cannot fetch media.
type scrapeExtractor struct {
	client *http.Client
}

func init() {
	register("scrape", func(opts Options) Extractor {
		return &scrapeExtractor{
			client: &http.Client{Timeout: opts.timeout()},
		}
	})
}

func (e *scrapeExtractor) Name() string { return "scrape" }

func (e *scrapeExtractor) Probe(ctx context.Context, rawURL string) (*media.VideoInfo, error) {
	videoID := media.ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, ErrNoVideoID
	}

	return &media.VideoInfo{
		ID:        videoID,
		Title:     e.pageTitle(ctx, videoID),
		Thumbnail: "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg",
		Formats:   scrapeFormats(),
	}, nil
}

func (e *scrapeExtractor) Fetch(ctx context.Context, rawURL string, sel media.Selection, dir string) (*MediaFile, error) {
	return nil, ErrFetchUnsupported
}

func (e *scrapeExtractor) StreamURL(ctx context.Context, rawURL string, sel media.Selection) (*media.StreamInfo, error) {
	return nil, ErrFetchUnsupported
}

// pageTitle fetches the watch page and extracts its <title>. Every failure
// along the way degrades to a synthetic placeholder; scraping is best-effort
// by contract and never fails a request.
func (e *scrapeExtractor) pageTitle(ctx context.Context, videoID string) string {
	placeholder := "Video " + videoID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.youtube.com/watch?v="+videoID, nil)
	if err != nil {
		return placeholder
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return placeholder
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return placeholder
	}

	title := htmlTitle(resp.Body)
	if title == "" {
		return placeholder
	}
	return strings.TrimSpace(strings.TrimSuffix(title, " - YouTube"))
}

// htmlTitle streams tokens until the document's <title> text is found.
func htmlTitle(body io.Reader) string {
	z := html.NewTokenizer(body)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.TextToken:
			if inTitle {
				return string(z.Text())
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}

// scrapeFormats is the fixed advertised rendition set; nothing real is probed.
func scrapeFormats() []media.Format {
	return []media.Format{
		{FormatID: "mp3", Quality: "audio", Ext: "mp3", Height: 0},
		{FormatID: "360p", Quality: "360p", Ext: "mp4", Height: 360, HasVideo: true},
		{FormatID: "720p", Quality: "720p", Ext: "mp4", Height: 720, HasVideo: true},
		{FormatID: "1080p", Quality: "1080p", Ext: "mp4", Height: 1080, HasVideo: true},
	}
}
