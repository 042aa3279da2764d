package media

import (
	"context"

	"smart-tutor-pipeline/cache"
	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/types"
)

// StockProvider searches a stock-media catalog for the first matching
// video or photo. Empty URLs mean no match; errors mean the provider
// itself failed.
type StockProvider interface {
	VideoFirst(ctx context.Context, query string) (url, posterURL string, err error)
	PhotoFirst(ctx context.Context, query string) (url string, err error)
}

// ImageSearcher is the general image-search fallback for phrases the stock
// provider has nothing for.
type ImageSearcher interface {
	ImageFirst(ctx context.Context, query string) (url string, err error)
}

// Resolver turns a search phrase plus desired kind into a usable media
// descriptor. It never fails: when every provider comes up empty it answers
// with the placeholder image sentinel.
type Resolver struct {
	cache          *cache.Gateway
	stock          StockProvider
	images         ImageSearcher
	placeholderURL string
}

// NewResolver wires the cache-then-fetch-then-store chain.
func NewResolver(gateway *cache.Gateway, stock StockProvider, images ImageSearcher, placeholderURL string) *Resolver {
	return &Resolver{
		cache:          gateway,
		stock:          stock,
		images:         images,
		placeholderURL: placeholderURL,
	}
}

// Placeholder returns the sentinel descriptor used when all resolution
// attempts fail.
func (r *Resolver) Placeholder() types.Media {
	return types.Media{Kind: types.MediaImage, URL: r.placeholderURL}
}

// IsPlaceholder reports whether a descriptor is the fallback sentinel.
func (r *Resolver) IsPlaceholder(m types.Media) bool {
	return m.URL == "" || m.URL == r.placeholderURL
}

// Resolve looks up a phrase in the cache, then walks the provider chain,
// writing fresh resolutions back to the cache.
func (r *Resolver) Resolve(ctx context.Context, phrase string, kind types.MediaKind) types.Media {
	if url, ok := r.cache.Lookup(ctx, phrase, kind); ok {
		logger.Info("media cache hit", logger.String("query", phrase), logger.String("kind", string(kind)))
		m := types.Media{Kind: kind, URL: url}
		if kind == types.MediaVideo {
			m.PosterURL = r.cache.Poster(ctx, phrase)
		}
		return m
	}

	logger.Info("fetching fresh media", logger.String("query", phrase), logger.String("kind", string(kind)))

	var fetched, poster string
	if kind == types.MediaVideo {
		url, posterURL, err := r.stock.VideoFirst(ctx, phrase)
		if err != nil {
			logger.Warn("stock video search failed", logger.String("query", phrase), logger.Err(err))
		}
		fetched, poster = url, posterURL
	} else {
		url, err := r.stock.PhotoFirst(ctx, phrase)
		if err != nil {
			logger.Warn("stock photo search failed", logger.String("query", phrase), logger.Err(err))
		}
		fetched = url
		if fetched == "" && r.images != nil {
			url, err := r.images.ImageFirst(ctx, phrase)
			if err != nil {
				logger.Warn("image search failed", logger.String("query", phrase), logger.Err(err))
			}
			fetched = url
		}
	}

	if fetched == "" {
		return r.Placeholder()
	}

	// Fire-and-forget write-back; the in-memory result is already usable.
	r.cache.Store(ctx, phrase, kind, fetched, poster)

	return types.Media{Kind: kind, URL: fetched, PosterURL: poster}
}
