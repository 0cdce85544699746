// Package media normalizes post media references.
package media

import (
	"net/url"
	"strings"
)

const embedHost = "https://www.youtube-nocookie.com"

// YouTubeEmbedURL normalizes any YouTube watch, share or shorts URL to
// the privacy-preserving embed form. Extra query parameters are
// dropped; an already-embed URL keeps its path. Returns "" for URLs no
// video ID can be extracted from.
func YouTubeEmbedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}

	if strings.HasPrefix(parsed.Path, "/embed/") {
		return embedHost + parsed.Path
	}

	videoID := parsed.Query().Get("v")
	if videoID == "" && parsed.Hostname() == "youtu.be" {
		videoID = strings.TrimPrefix(parsed.Path, "/")
	}
	if videoID == "" && strings.HasPrefix(parsed.Path, "/shorts/") {
		rest := strings.TrimPrefix(parsed.Path, "/shorts/")
		videoID = strings.SplitN(rest, "/", 2)[0]
	}
	if videoID == "" {
		return ""
	}
	return embedHost + "/embed/" + videoID
}
