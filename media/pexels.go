package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultPexelsBaseURL = "https://api.pexels.com"

// PexelsClient queries the Pexels stock media API for the first matching
// photo or video.
type PexelsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPexelsClient creates a Pexels client.
func NewPexelsClient(apiKey string) *PexelsClient {
	return &PexelsClient{
		apiKey:     apiKey,
		baseURL:    defaultPexelsBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type pexelsVideoFile struct {
	Link  string `json:"link"`
	Width int    `json:"width"`
}

type pexelsVideo struct {
	Image      string            `json:"image"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsPhoto struct {
	Src struct {
		Large2x string `json:"large2x"`
	} `json:"src"`
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
	Photos []pexelsPhoto `json:"photos"`
}

// VideoFirst returns the best rendition URL and poster frame of the first
// video matching the query, or empty strings when there is no match.
// Renditions prefer the first file at least 1280 wide, else the first file.
func (c *PexelsClient) VideoFirst(ctx context.Context, query string) (string, string, error) {
	var resp pexelsSearchResponse
	if err := c.search(ctx, "videos/search", query, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Videos) == 0 {
		return "", "", nil
	}

	video := resp.Videos[0]
	if len(video.VideoFiles) == 0 {
		return "", "", nil
	}
	pick := video.VideoFiles[0]
	for _, f := range video.VideoFiles {
		if f.Width >= 1280 {
			pick = f
			break
		}
	}
	return pick.Link, video.Image, nil
}

// PhotoFirst returns the high-resolution rendition of the first photo
// matching the query, or empty when there is no match or no large2x
// rendition is available.
func (c *PexelsClient) PhotoFirst(ctx context.Context, query string) (string, error) {
	var resp pexelsSearchResponse
	if err := c.search(ctx, "v1/search", query, &resp); err != nil {
		return "", err
	}
	if len(resp.Photos) == 0 {
		return "", nil
	}
	return resp.Photos[0].Src.Large2x, nil
}

func (c *PexelsClient) search(ctx context.Context, endpoint, query string, out *pexelsSearchResponse) error {
	u := fmt.Sprintf("%s/%s?query=%s&per_page=1&orientation=landscape",
		c.baseURL, endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pexels request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse pexels response: %w", err)
	}
	return nil
}
