package media

import (
	"context"
	"fmt"
	"net/url"

	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/types"
)

// Enricher resolves media for every script segment. Resolution is strictly
// sequential in script order, which bounds outbound calls to one in flight
// and keeps result order identical to script order.
type Enricher struct {
	resolver *Resolver
	loader   ImageLoader

	proxyBaseURL string
	proxyWidth   int
	proxyHeight  int
}

// NewEnricher builds an enricher. proxyBaseURL is the resizing proxy that
// normalizes image delivery (uniform dimensions, CORS-clean origin).
func NewEnricher(resolver *Resolver, loader ImageLoader, proxyBaseURL string, proxyWidth, proxyHeight int) *Enricher {
	return &Enricher{
		resolver:     resolver,
		loader:       loader,
		proxyBaseURL: proxyBaseURL,
		proxyWidth:   proxyWidth,
		proxyHeight:  proxyHeight,
	}
}

// Enrich resolves each segment's media, preferring motion media and falling
// back to stills. The only error it returns is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, segments []types.Segment) ([]types.EnrichedSegment, error) {
	results := make([]types.EnrichedSegment, 0, len(segments))

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("enriching segment",
			logger.Int("index", i),
			logger.String("query", seg.Query))

		m := e.resolver.Resolve(ctx, seg.Query, types.MediaVideo)
		if e.resolver.IsPlaceholder(m) {
			m = e.resolver.Resolve(ctx, seg.Query, types.MediaImage)
		}

		enriched := types.EnrichedSegment{
			Segment:  seg,
			Kind:     m.Kind,
			MediaURL: m.URL,
			CharLen:  seg.CharLen(),
		}

		if m.Kind == types.MediaImage {
			enriched.MediaURL = e.proxyURL(m.URL)
			enriched.Decoded = e.loader.Load(ctx, enriched.MediaURL)
		} else if m.PosterURL != "" {
			// Poster frame stands in for live video frames during export.
			enriched.Poster = e.loader.Load(ctx, e.proxyURL(m.PosterURL))
		}

		results = append(results, enriched)
	}
	return results, nil
}

// proxyURL rewrites an image URL through the fixed-size-crop resizing proxy
// so every still lands at proxyWidth x proxyHeight with cover fit.
func (e *Enricher) proxyURL(raw string) string {
	if raw == "" || e.proxyBaseURL == "" {
		return raw
	}
	return fmt.Sprintf("%s?url=%s&w=%d&h=%d&fit=cover&output=jpg",
		e.proxyBaseURL, url.QueryEscape(raw), e.proxyWidth, e.proxyHeight)
}
