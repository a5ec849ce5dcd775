package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tubeserve/tubeserve/internal/extractor"
	"github.com/tubeserve/tubeserve/internal/media"
)

// fakeExtractor writes a fixed payload, or fails.
type fakeExtractor struct {
	fail    bool
	seenDir string
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) Probe(ctx context.Context, rawURL string) (*media.VideoInfo, error) {
	return &media.VideoInfo{Title: "t"}, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, rawURL string, sel media.Selection, dir string) (*extractor.MediaFile, error) {
	f.seenDir = dir
	if f.fail {
		return nil, errors.New("boom")
	}
	path := filepath.Join(dir, "abcd1234.mp4")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		return nil, err
	}
	return &extractor.MediaFile{Path: path, Size: 7, Ext: "mp4", Title: "A Clip"}, nil
}

func (f *fakeExtractor) StreamURL(ctx context.Context, rawURL string, sel media.Selection) (*media.StreamInfo, error) {
	return nil, extractor.ErrFetchUnsupported
}

func TestFetchCleanup(t *testing.T) {
	fake := &fakeExtractor{}
	d := New(fake)

	file, cleanup, err := d.Fetch(context.Background(), "https://youtu.be/x", media.ParseQuality("best"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(file.Path); err != nil {
		t.Fatalf("fetched file missing: %v", err)
	}

	cleanup()
	if _, err := os.Stat(fake.seenDir); !os.IsNotExist(err) {
		t.Error("temp dir survived cleanup")
	}
}

func TestFetchErrorRemovesTempDir(t *testing.T) {
	fake := &fakeExtractor{fail: true}
	d := New(fake)

	_, _, err := d.Fetch(context.Background(), "https://youtu.be/x", media.ParseQuality("best"))
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(fake.seenDir); !os.IsNotExist(statErr) {
		t.Error("temp dir leaked on fetch failure")
	}
}

func TestSaveTo(t *testing.T) {
	d := New(&fakeExtractor{})
	dest := t.TempDir()

	path, err := d.SaveTo(context.Background(), "https://youtu.be/x", media.ParseQuality("best"), dest)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "A Clip.mp4" {
		t.Errorf("saved as %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		ext   string
		want  string
	}{
		{"Plain Title", "mp4", "Plain Title.mp4"},
		{"Bad/Chars\\Here: *?", "mp4", "BadCharsHere.mp4"},
		{"", "mp3", "video.mp3"},
		{"###", "mp4", "video.mp4"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, tt.ext); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}

	long := strings.Repeat("a", 80)
	if got := Filename(long, "mp4"); got != strings.Repeat("a", 50)+".mp4" {
		t.Errorf("long title not truncated: %q", got)
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("mp3"); got != "audio/mp3" {
		t.Errorf("ContentType(mp3) = %q", got)
	}
	if got := ContentType("mp4"); got != "video/mp4" {
		t.Errorf("ContentType(mp4) = %q", got)
	}
}
