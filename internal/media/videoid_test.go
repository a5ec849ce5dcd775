package media

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "watch URL", url: "https://www.youtube.com/watch?v=ABC123&t=5", want: "ABC123"},
		{name: "short URL", url: "https://youtu.be/XYZ789?x=1", want: "XYZ789"},
		{name: "embed URL", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "v after other params", url: "https://youtube.com/watch?feature=share&v=abc_-123", want: "abc_-123"},
		{name: "stops at fragment", url: "https://youtu.be/XYZ789#t=30", want: "XYZ789"},
		{name: "non-video URL", url: "https://example.com/watch?v=nope", want: ""},
		{name: "plain text", url: "not a url at all", want: ""},
		{name: "empty", url: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractVideoID(tt.url); got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
