package extractor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/tubeserve/tubeserve/internal/media"
)

// nativeExtractor performs extraction in-process against the Innertube API.
type nativeExtractor struct {
	client youtube.Client
}

func init() {
	register("native", func(opts Options) Extractor {
		return &nativeExtractor{
			client: youtube.Client{
				HTTPClient: &http.Client{Timeout: opts.timeout()},
			},
		}
	})
}

func (e *nativeExtractor) Name() string { return "native" }

func (e *nativeExtractor) Probe(ctx context.Context, rawURL string) (*media.VideoInfo, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}
	return nativeVideoInfo(video), nil
}

// Fetch downloads the selected rendition into dir. Audio selections come back
// in their native container (m4a/webm); transcoding is out of scope here.
func (e *nativeExtractor) Fetch(ctx context.Context, rawURL string, sel media.Selection, dir string) (*MediaFile, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	format, err := selectNativeFormat(video, sel)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	stream, _, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}
	defer stream.Close()

	ext := mimeExt(format.MimeType)
	path := filepath.Join(dir, fileID()+"."+ext)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(f, stream)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	return &MediaFile{Path: path, Size: n, Ext: ext, Title: video.Title}, nil
}

func (e *nativeExtractor) StreamURL(ctx context.Context, rawURL string, sel media.Selection) (*media.StreamInfo, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	format, err := selectNativeFormat(video, sel)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	streamURL, err := e.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, &ExtractError{URL: rawURL, Err: err}
	}

	return &media.StreamInfo{
		URL:      streamURL,
		Title:    video.Title,
		Duration: int(video.Duration.Seconds()),
	}, nil
}

func nativeVideoInfo(v *youtube.Video) *media.VideoInfo {
	info := &media.VideoInfo{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    int(v.Duration.Seconds()),
		Uploader:    v.Author,
		ViewCount:   int64(v.Views),
	}
	// Thumbnails are ordered smallest first.
	if n := len(v.Thumbnails); n > 0 {
		info.Thumbnail = v.Thumbnails[n-1].URL
	}
	for _, f := range v.Formats {
		info.Formats = append(info.Formats, nativeFormat(f))
	}
	return info
}

func nativeFormat(f youtube.Format) media.Format {
	return media.Format{
		FormatID: strconv.Itoa(f.ItagNo),
		Quality:  f.QualityLabel,
		Height:   f.Height,
		Ext:      mimeExt(f.MimeType),
		Filesize: f.ContentLength,
		HasVideo: strings.HasPrefix(f.MimeType, "video/") && f.Height > 0,
	}
}

// selectNativeFormat picks the rendition for a Selection explicitly rather
// than trusting any ordering of the upstream format list.
func selectNativeFormat(v *youtube.Video, sel media.Selection) (*youtube.Format, error) {
	if sel.AudioOnly {
		var audio []youtube.Format
		for _, f := range v.Formats.WithAudioChannels() {
			if strings.HasPrefix(f.MimeType, "audio/") {
				audio = append(audio, f)
			}
		}
		if len(audio) == 0 {
			audio = v.Formats.WithAudioChannels()
		}
		if len(audio) == 0 {
			return nil, fmt.Errorf("no audio formats available")
		}
		sort.Slice(audio, func(i, j int) bool { return audio[i].Bitrate > audio[j].Bitrate })
		return &audio[0], nil
	}

	// Muxed mp4 formats play standalone; fall back to video-only renditions
	// when a video publishes nothing muxed.
	candidates := []youtube.Format(v.Formats.Type("video/mp4").WithAudioChannels())
	if len(candidates) == 0 {
		for _, f := range v.Formats {
			if strings.HasPrefix(f.MimeType, "video/") && f.Height > 0 {
				candidates = append(candidates, f)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no video formats available")
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Height > candidates[j].Height })

	if sel.Worst {
		return &candidates[len(candidates)-1], nil
	}
	if sel.Height > 0 {
		for i := range candidates {
			if candidates[i].Height <= sel.Height {
				return &candidates[i], nil
			}
		}
		// Nothing at or below the requested height: smallest available.
		return &candidates[len(candidates)-1], nil
	}
	return &candidates[0], nil
}

func mimeExt(mimeType string) string {
	mt := mimeType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	if i := strings.Index(mt, "/"); i >= 0 && i+1 < len(mt) {
		return mt[i+1:]
	}
	return "mp4"
}

// fileID generates a short random identifier for temp filenames.
func fileID() string {
	var b [4]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
