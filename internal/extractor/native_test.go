package extractor

import (
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/tubeserve/tubeserve/internal/media"
)

func testVideo() *youtube.Video {
	return &youtube.Video{
		ID:       "ABC123",
		Title:    "Sample Clip",
		Author:   "someone",
		Duration: 95 * time.Second,
		Views:    1200,
		Thumbnails: youtube.Thumbnails{
			{URL: "https://i.ytimg.com/vi/ABC123/default.jpg", Width: 120, Height: 90},
			{URL: "https://i.ytimg.com/vi/ABC123/hqdefault.jpg", Width: 480, Height: 360},
		},
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Height: 360, AudioChannels: 2, Bitrate: 500000, QualityLabel: "360p"},
			{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Height: 720, AudioChannels: 2, Bitrate: 1500000, QualityLabel: "720p"},
			{ItagNo: 248, MimeType: `video/webm; codecs="vp9"`, Height: 1080, AudioChannels: 0, Bitrate: 2500000, QualityLabel: "1080p"},
			{ItagNo: 140, MimeType: `audio/mp4; codecs="mp4a.40.2"`, Height: 0, AudioChannels: 2, Bitrate: 128000},
			{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, Height: 0, AudioChannels: 2, Bitrate: 160000},
		},
	}
}

func TestSelectNativeFormat(t *testing.T) {
	v := testVideo()

	tests := []struct {
		name     string
		token    string
		wantItag int
	}{
		// Best muxed mp4 wins over the taller video-only rendition.
		{"best", "best", 22},
		{"worst", "worst", 18},
		{"height match", "480", 18},
		{"height above all", "2000", 22},
		{"audio best bitrate", "audio", 251},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := selectNativeFormat(v, media.ParseQuality(tt.token))
			if err != nil {
				t.Fatal(err)
			}
			if f.ItagNo != tt.wantItag {
				t.Errorf("itag = %d, want %d", f.ItagNo, tt.wantItag)
			}
		})
	}
}

func TestSelectNativeFormatVideoOnlyFallback(t *testing.T) {
	v := &youtube.Video{
		Formats: youtube.FormatList{
			{ItagNo: 248, MimeType: `video/webm; codecs="vp9"`, Height: 1080, AudioChannels: 0},
			{ItagNo: 247, MimeType: `video/webm; codecs="vp9"`, Height: 720, AudioChannels: 0},
		},
	}
	f, err := selectNativeFormat(v, media.ParseQuality("best"))
	if err != nil {
		t.Fatal(err)
	}
	if f.ItagNo != 248 {
		t.Errorf("itag = %d, want 248", f.ItagNo)
	}
}

func TestSelectNativeFormatNoFormats(t *testing.T) {
	v := &youtube.Video{}
	if _, err := selectNativeFormat(v, media.ParseQuality("best")); err == nil {
		t.Error("expected error for empty format list")
	}
	if _, err := selectNativeFormat(v, media.ParseQuality("audio")); err == nil {
		t.Error("expected error for empty audio list")
	}
}

func TestNativeVideoInfo(t *testing.T) {
	info := nativeVideoInfo(testVideo())

	if info.ID != "ABC123" || info.Title != "Sample Clip" || info.Uploader != "someone" {
		t.Errorf("info = %+v", info)
	}
	if info.Duration != 95 {
		t.Errorf("duration = %d", info.Duration)
	}
	if info.Thumbnail != "https://i.ytimg.com/vi/ABC123/hqdefault.jpg" {
		t.Errorf("thumbnail = %q, want largest", info.Thumbnail)
	}
	if len(info.Formats) != 5 {
		t.Fatalf("formats = %d", len(info.Formats))
	}

	var withVideo int
	for _, f := range info.Formats {
		if f.HasVideo {
			withVideo++
		}
	}
	if withVideo != 3 {
		t.Errorf("formats with video = %d, want 3", withVideo)
	}
}
