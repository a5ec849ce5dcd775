package media

import (
	"net/url"
	"strings"
)

// FallbackLinks builds the fixed set of third-party downloader URLs handed to
// clients when extraction fails. These are best-effort templates with no
// contract guarantees. The escaping is deliberately partial (& and = only),
// matching what the target sites expect in their fragment parameters.
func FallbackLinks(rawURL string) map[string]string {
	escaped := strings.NewReplacer("&", "%26", "=", "%3D").Replace(rawURL)
	videoID := ExtractVideoID(rawURL)

	return map[string]string{
		"savefrom":             "https://savefrom.net/#url=" + escaped,
		"y2mate":               "https://www.y2mate.com/youtube/" + videoID,
		"keepvid":              "https://keepvid.com/?url=" + escaped,
		"clipconverter":        "https://www.clipconverter.cc/2/#url=" + escaped,
		"onlinevideoconverter": "https://www.onlinevideoconverter.com/success?url=" + escaped,
	}
}

// DownloadLinks builds the ordered alternative-download list used when the
// active backend cannot fetch media itself. The first entry is the primary.
func DownloadLinks(rawURL, quality string) []string {
	escaped := url.QueryEscape(rawURL)
	videoID := ExtractVideoID(rawURL)

	links := []string{
		"https://vkrdownloader.xyz/server/dl.php?vkr=" + escaped + "&q=" + url.QueryEscape(quality),
	}
	if videoID != "" {
		links = append(links,
			"https://www.y2mate.com/youtube/"+videoID,
			"https://savefrom.net/#url="+escaped,
		)
	}
	links = append(links, "https://vkrdownloader.xyz/server/force.php?vkr="+escaped+"&q="+url.QueryEscape(quality))
	return links
}
