package media

import (
	"strconv"
	"strings"
)

// Selection is a resolved quality request: an opaque selector expression in
// yt-dlp syntax plus the target container. Backends that do not speak the
// selector syntax interpret Height/AudioOnly/Worst directly.
type Selection struct {
	Selector  string
	Ext       string
	Height    int // 0 means unconstrained
	AudioOnly bool
	Worst     bool
}

// ParseQuality maps a free-form quality token to a Selection.
// "audio"/"mp3" pick the best audio track, "best"/"worst" pass through, and
// anything else is scanned for a leading digit run ("720p" -> height<=720).
// Unparseable input degrades to "best"; this never fails.
func ParseQuality(token string) Selection {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "audio", "mp3":
		return Selection{Selector: "bestaudio/best", Ext: "mp3", AudioOnly: true}
	case "worst":
		return Selection{Selector: "worst", Ext: "mp4", Worst: true}
	case "best", "":
		return Selection{Selector: "best", Ext: "mp4"}
	}

	height := leadingDigits(token)
	if height == 0 {
		return Selection{Selector: "best", Ext: "mp4"}
	}
	return Selection{
		Selector: "best[height<=" + strconv.Itoa(height) + "]",
		Ext:      "mp4",
		Height:   height,
	}
}

// leadingDigits collects every digit in the token, matching the reference
// behavior of filtering str.isdigit over the whole string.
func leadingDigits(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			seen = true
		}
	}
	if !seen {
		return 0
	}
	return n
}
