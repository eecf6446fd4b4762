package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

const DefaultPexelsBaseURL = "https://api.pexels.com"

// PexelsClient searches the Pexels photo API.
type PexelsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPexelsClient(apiKey, baseURL string, timeout time.Duration) *PexelsClient {
	if baseURL == "" {
		baseURL = DefaultPexelsBaseURL
	}
	return &PexelsClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type pexelsResponse struct {
	Photos []struct {
		URL          string `json:"url"`
		Photographer string `json:"photographer"`
		Src          struct {
			Original string `json:"original"`
			Medium   string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *PexelsClient) SearchImages(ctx context.Context, query string, count int) ([]Image, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(count))
	endpoint := c.baseURL + "/v1/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pexels request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apierr.Transport("pexels search", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apierr.Transport("pexels read", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apierr.Upstream("pexels status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed pexelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apierr.Upstream("pexels malformed body: %v", err)
	}

	images := make([]Image, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		images = append(images, Image{
			URL:          p.Src.Original,
			Medium:       p.Src.Medium,
			Photographer: p.Photographer,
			Link:         p.URL,
		})
	}
	return images, nil
}
