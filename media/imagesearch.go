package media

import (
	"context"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// ImageSearch is the general image-search fallback, backed by Google
// Programmable Search.
type ImageSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewImageSearch builds an image search client. Extra options are accepted
// so tests can point the service at a local endpoint.
func NewImageSearch(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*ImageSearch, error) {
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create search service: %w", err)
	}
	return &ImageSearch{svc: svc, cx: cx}, nil
}

// ImageFirst returns the direct URL of the first image result for the
// query, or empty when there is none.
func (s *ImageSearch) ImageFirst(ctx context.Context, query string) (string, error) {
	resp, err := s.svc.Cse.List().
		Q(query).
		Cx(s.cx).
		SearchType("image").
		Num(1).
		Safe("active").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("image search: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Link, nil
}
