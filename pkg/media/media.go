// Package media searches external services for teaching images and videos.
package media

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

const (
	TypeImage = "image"
	TypeVideo = "video"
	TypeAll   = "all"
)

// ErrNotConfigured is returned when a provider has no credentials.
var ErrNotConfigured = fmt.Errorf("%w: media provider not configured", apierr.ErrUpstream)

// Image is one image search hit.
type Image struct {
	URL          string `json:"url"`
	Medium       string `json:"medium,omitempty"`
	Photographer string `json:"photographer"`
	Link         string `json:"link"`
}

// Video is one video search hit.
type Video struct {
	Title     string `json:"title"`
	VideoID   string `json:"videoId"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
}

type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, count int) ([]Image, error)
}

type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, count int) ([]Video, error)
}

// browserHeaders make scraped requests look like a normal browser visit.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
