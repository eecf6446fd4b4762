package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

const (
	DefaultYouTubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultYouTubeWebBaseURL = "https://www.youtube.com"

	moduleName = "MEDIA"
)

// YouTubeClient searches videos through the Data API when a key is set and
// falls back to scraping the public results page.
type YouTubeClient struct {
	apiKey     string
	apiBaseURL string
	webBaseURL string
	client     *http.Client
	logger     logger.ILogger
}

type YouTubeOption func(*YouTubeClient)

// WithYouTubeBaseURLs overrides the API and web endpoints.
func WithYouTubeBaseURLs(apiBaseURL, webBaseURL string) YouTubeOption {
	return func(c *YouTubeClient) {
		if apiBaseURL != "" {
			c.apiBaseURL = strings.TrimRight(apiBaseURL, "/")
		}
		if webBaseURL != "" {
			c.webBaseURL = strings.TrimRight(webBaseURL, "/")
		}
	}
}

func WithYouTubeLogger(l logger.ILogger) YouTubeOption {
	return func(c *YouTubeClient) {
		c.logger = l
	}
}

func NewYouTubeClient(apiKey string, timeout time.Duration, opts ...YouTubeOption) *YouTubeClient {
	c := &YouTubeClient{
		apiKey:     apiKey,
		apiBaseURL: DefaultYouTubeAPIBaseURL,
		webBaseURL: DefaultYouTubeWebBaseURL,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *YouTubeClient) SearchVideos(ctx context.Context, query string, count int) ([]Video, error) {
	if c.apiKey != "" {
		videos, err := c.searchAPI(ctx, query, count)
		if err == nil {
			return videos, nil
		}
		c.logger.Warn(moduleName, "youtube api search failed, scraping results page", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
	return c.searchPage(ctx, query, count)
}

type youtubeAPIResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title      string                      `json:"title"`
			Thumbnails map[string]youtubeThumbnail `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *YouTubeClient) searchAPI(ctx context.Context, query string, count int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(count))
	params.Set("key", c.apiKey)

	body, err := c.get(ctx, c.apiBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var parsed youtubeAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apierr.Upstream("youtube api malformed body: %v", err)
	}

	videos := make([]Video, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			Title:     it.Snippet.Title,
			VideoID:   it.ID.VideoID,
			Thumbnail: pickThumbnail(it.Snippet.Thumbnails),
			URL:       watchURL(it.ID.VideoID),
		})
	}
	return videos, nil
}

type youtubeThumbnail struct {
	URL string `json:"url"`
}

func pickThumbnail(thumbs map[string]youtubeThumbnail) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

func (c *YouTubeClient) searchPage(ctx context.Context, query string, count int) ([]Video, error) {
	params := url.Values{}
	params.Set("search_query", query)

	body, err := c.get(ctx, c.webBaseURL+"/results?"+params.Encode(), browserHeaders)
	if err != nil {
		return nil, err
	}
	return parseResultsPage(string(body), count), nil
}

func (c *YouTubeClient) get(ctx context.Context, endpoint string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apierr.Transport("youtube search", err)
	}
	defer resp.Body.Close()

	// results pages are large; 8MB is ample
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, apierr.Transport("youtube read", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.Upstream("youtube status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

const initialDataMarker = "ytInitialData"

// parseResultsPage pulls videos out of the ytInitialData blob embedded in a
// results page. Anything unexpected yields an empty list.
func parseResultsPage(page string, count int) []Video {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return []Video{}
	}

	var blob string
	var findScript func(*html.Node)
	findScript = func(n *html.Node) {
		if blob != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil {
			if text := n.FirstChild.Data; strings.Contains(text, initialDataMarker) {
				blob = extractJSONObject(text[strings.Index(text, initialDataMarker):])
				return
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			findScript(ch)
		}
	}
	findScript(doc)

	if blob == "" {
		return []Video{}
	}
	var data any
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return []Video{}
	}

	videos := []Video{}
	collectVideoRenderers(data, func(r map[string]any) bool {
		if v, ok := videoFromRenderer(r); ok {
			videos = append(videos, v)
		}
		return len(videos) < count
	})
	return videos
}

// extractJSONObject returns the first balanced {...} in s, honouring strings.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// collectVideoRenderers walks the decoded JSON depth-first and calls visit
// for each "videoRenderer" object until visit returns false.
func collectVideoRenderers(node any, visit func(map[string]any) bool) bool {
	switch v := node.(type) {
	case map[string]any:
		if r, ok := v["videoRenderer"].(map[string]any); ok {
			if !visit(r) {
				return false
			}
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			if key != "videoRenderer" {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			if !collectVideoRenderers(v[key], visit) {
				return false
			}
		}
	case []any:
		for _, child := range v {
			if !collectVideoRenderers(child, visit) {
				return false
			}
		}
	}
	return true
}

func videoFromRenderer(r map[string]any) (Video, bool) {
	id, _ := r["videoId"].(string)
	if id == "" {
		return Video{}, false
	}
	v := Video{VideoID: id, URL: watchURL(id)}

	if title, ok := r["title"].(map[string]any); ok {
		if runs, ok := title["runs"].([]any); ok && len(runs) > 0 {
			if run, ok := runs[0].(map[string]any); ok {
				v.Title, _ = run["text"].(string)
			}
		}
		if v.Title == "" {
			v.Title, _ = title["simpleText"].(string)
		}
	}

	if thumb, ok := r["thumbnail"].(map[string]any); ok {
		if list, ok := thumb["thumbnails"].([]any); ok && len(list) > 0 {
			if last, ok := list[len(list)-1].(map[string]any); ok {
				v.Thumbnail, _ = last["url"].(string)
			}
		}
	}
	return v, true
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
