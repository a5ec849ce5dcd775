package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tubeserve/tubeserve/internal/media"
)

// ytdlpExtractor shells out to yt-dlp. Every invocation runs under the fixed
// timeout and is never retried.
type ytdlpExtractor struct {
	path    string
	timeout time.Duration
}

func init() {
	register("ytdlp", func(opts Options) Extractor {
		path := opts.YtdlpPath
		if path == "" {
			path = "yt-dlp"
		}
		return &ytdlpExtractor{path: path, timeout: opts.timeout()}
	})
}

func (e *ytdlpExtractor) Name() string { return "ytdlp" }

// ytdlpInfo mirrors the subset of yt-dlp's JSON output this service reads.
type ytdlpInfo struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    float64       `json:"duration"`
	Thumbnail   string        `json:"thumbnail"`
	Uploader    string        `json:"uploader"`
	ViewCount   int64         `json:"view_count"`
	URL         string        `json:"url"`
	Formats     []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID   string `json:"format_id"`
	Ext        string `json:"ext"`
	Height     int    `json:"height"`
	Filesize   int64  `json:"filesize"`
	VCodec     string `json:"vcodec"`
	FormatNote string `json:"format_note"`
}

func (e *ytdlpExtractor) Probe(ctx context.Context, rawURL string) (*media.VideoInfo, error) {
	out, err := e.run(ctx, "--dump-json", "--no-download", "--no-warnings", "--no-playlist", rawURL)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	var data ytdlpInfo
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, &ExtractError{URL: rawURL, Err: fmt.Errorf("parsing yt-dlp output: %w", err)}
	}
	return data.videoInfo(), nil
}

func (e *ytdlpExtractor) Fetch(ctx context.Context, rawURL string, sel media.Selection, dir string) (*MediaFile, error) {
	template := filepath.Join(dir, "%(title).80s.%(ext)s")
	args := []string{"-o", template, "--no-playlist", "--no-warnings", "--quiet"}
	if sel.AudioOnly {
		args = append(args, "-f", sel.Selector, "-x", "--audio-format", "mp3")
	} else {
		args = append(args, "-f", sel.Selector)
	}
	args = append(args, rawURL)

	if _, err := e.run(ctx, args...); err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	// dir is a fresh temp dir for this request, so whatever landed is ours.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		return &MediaFile{
			Path:  filepath.Join(dir, name),
			Size:  info.Size(),
			Ext:   trimDot(ext),
			Title: name[:len(name)-len(ext)],
		}, nil
	}
	return nil, &ExtractError{URL: rawURL, Err: errors.New("downloaded file not found")}
}

func (e *ytdlpExtractor) StreamURL(ctx context.Context, rawURL string, sel media.Selection) (*media.StreamInfo, error) {
	// -j with an explicit format selector makes yt-dlp resolve the chosen
	// rendition's direct URL into the top-level "url" field.
	out, err := e.run(ctx, "-j", "--no-download", "--no-warnings", "--no-playlist", "-f", sel.Selector, rawURL)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	var data ytdlpInfo
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, &ExtractError{URL: rawURL, Err: fmt.Errorf("parsing yt-dlp output: %w", err)}
	}
	if data.URL == "" {
		return nil, &ExtractError{URL: rawURL, Err: errors.New("no stream URL in yt-dlp output")}
	}

	return &media.StreamInfo{
		URL:      data.URL,
		Title:    data.Title,
		Duration: int(data.Duration),
	}, nil
}

// run executes yt-dlp under the configured timeout and returns stdout.
func (e *ytdlpExtractor) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, e.path, args...).Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("yt-dlp timed out after %s", e.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("yt-dlp: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}
	return out, nil
}

func (d *ytdlpInfo) videoInfo() *media.VideoInfo {
	info := &media.VideoInfo{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Duration:    int(d.Duration),
		Thumbnail:   d.Thumbnail,
		Uploader:    d.Uploader,
		ViewCount:   d.ViewCount,
	}
	for _, f := range d.Formats {
		info.Formats = append(info.Formats, media.Format{
			FormatID: f.FormatID,
			Quality:  f.FormatNote,
			Height:   f.Height,
			Ext:      f.Ext,
			Filesize: f.Filesize,
			HasVideo: f.VCodec != "" && f.VCodec != "none",
		})
	}
	return info
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}
