package media

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"smart-tutor-pipeline/logger"
)

// ImageLoader fetches and decodes an image URL into an in-memory handle.
type ImageLoader interface {
	Load(ctx context.Context, url string) image.Image
}

// HTTPImageLoader decodes images over HTTP. A failed fetch or decode yields
// a nil handle, never an error: the exporter skips drawing nil handles.
type HTTPImageLoader struct {
	httpClient *http.Client
}

func NewHTTPImageLoader() *HTTPImageLoader {
	return &HTTPImageLoader{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (l *HTTPImageLoader) Load(ctx context.Context, url string) image.Image {
	if url == "" {
		return nil
	}
	img, err := l.fetch(ctx, url)
	if err != nil {
		logger.Warn("image decode failed", logger.String("url", url), logger.Err(err))
		return nil
	}
	return img
}

func (l *HTTPImageLoader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return img, nil
}
