package media

import "regexp"

// The watch?v=, youtu.be/ and /embed/ shapes, then the looser form where v=
// appears after other query parameters. Capture stops at &, ?, # or newline.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&?#\n]+)`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([^&?#\n]+)`),
}

// ExtractVideoID pulls the YouTube video ID out of a URL. An unrecognized URL
// yields "" and callers treat that as silently degraded, not as an error.
func ExtractVideoID(rawURL string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}
