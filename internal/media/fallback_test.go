package media

import (
	"strings"
	"testing"
)

func TestFallbackLinks(t *testing.T) {
	const watchURL = "https://www.youtube.com/watch?v=ABC123&t=5"

	links := FallbackLinks(watchURL)

	wantKeys := []string{"savefrom", "y2mate", "keepvid", "clipconverter", "onlinevideoconverter"}
	if len(links) != len(wantKeys) {
		t.Fatalf("got %d services, want %d", len(links), len(wantKeys))
	}
	for _, k := range wantKeys {
		if links[k] == "" {
			t.Errorf("missing service %q", k)
		}
	}

	// Partial escape: only & and = are replaced.
	const escaped = "https://www.youtube.com/watch?v%3DABC123%26t%3D5"
	for _, k := range []string{"savefrom", "keepvid", "clipconverter", "onlinevideoconverter"} {
		if !strings.Contains(links[k], escaped) {
			t.Errorf("%s = %q, want it to contain %q", k, links[k], escaped)
		}
	}

	if want := "https://www.y2mate.com/youtube/ABC123"; links["y2mate"] != want {
		t.Errorf("y2mate = %q, want %q", links["y2mate"], want)
	}
}

func TestFallbackLinksNoVideoID(t *testing.T) {
	links := FallbackLinks("https://example.com/clip")
	// ID-dependent templates embed an empty identifier rather than failing.
	if want := "https://www.y2mate.com/youtube/"; links["y2mate"] != want {
		t.Errorf("y2mate = %q, want %q", links["y2mate"], want)
	}
}

func TestDownloadLinks(t *testing.T) {
	links := DownloadLinks("https://www.youtube.com/watch?v=ABC123", "720")
	if len(links) != 4 {
		t.Fatalf("got %d links, want 4", len(links))
	}
	if !strings.HasPrefix(links[0], "https://vkrdownloader.xyz/server/dl.php?vkr=") {
		t.Errorf("primary link = %q", links[0])
	}
	if !strings.Contains(links[0], "&q=720") {
		t.Errorf("primary link missing quality: %q", links[0])
	}
	if links[1] != "https://www.y2mate.com/youtube/ABC123" {
		t.Errorf("links[1] = %q", links[1])
	}
}

func TestDownloadLinksNoVideoID(t *testing.T) {
	links := DownloadLinks("https://example.com/clip", "best")
	// Without an ID only the URL-templated services remain.
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
}
