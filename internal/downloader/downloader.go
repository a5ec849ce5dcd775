// Package downloader plumbs extractor output to disk with scoped cleanup of
// the per-request temporary directory.
package downloader

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tubeserve/tubeserve/internal/extractor"
	"github.com/tubeserve/tubeserve/internal/media"
)

// audioExts classifies extensions for Content-Type derivation.
var audioExts = map[string]bool{
	"mp3": true, "m4a": true, "aac": true, "ogg": true,
	"wav": true, "flac": true, "wma": true, "opus": true,
}

// Downloader fetches media through an extraction backend.
type Downloader struct {
	ext extractor.Extractor
}

// New creates a Downloader backed by the given extractor.
func New(ext extractor.Extractor) *Downloader {
	return &Downloader{ext: ext}
}

// Fetch downloads the selected rendition into a fresh temporary directory.
// The returned cleanup removes the directory and must run on every exit path
// once the file has been consumed. On error the directory is already gone.
func (d *Downloader) Fetch(ctx context.Context, rawURL string, sel media.Selection) (*extractor.MediaFile, func(), error) {
	dir, err := os.MkdirTemp("", "tubeserve-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	file, err := d.ext.Fetch(ctx, rawURL, sel, dir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return file, cleanup, nil
}

// SaveTo fetches and moves the result into destDir under its attachment name.
func (d *Downloader) SaveTo(ctx context.Context, rawURL string, sel media.Selection, destDir string) (string, error) {
	file, cleanup, err := d.Fetch(ctx, rawURL, sel)
	if err != nil {
		return "", err
	}
	defer cleanup()

	dest := filepath.Join(destDir, Filename(file.Title, file.Ext))
	if err := moveFile(file.Path, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// Filename builds a safe attachment filename from a title: the title is
// truncated to 50 bytes and stripped to alphanumerics plus space, dash,
// underscore and dot.
func Filename(title, ext string) string {
	if title == "" {
		title = "video"
	}
	if len(title) > 50 {
		title = title[:50]
	}

	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = "video"
	}
	return name + "." + ext
}

// ContentType derives the response media type from the file extension.
func ContentType(ext string) string {
	if audioExts[ext] {
		return "audio/" + ext
	}
	return "video/" + ext
}

// moveFile renames src to dest, copying across filesystems when rename fails.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
