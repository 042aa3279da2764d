package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/types"
)

const maxKeyLen = 50

// Entry is the cache document for one search phrase. Video and image
// resolutions for the same phrase share a document and merge on write.
type Entry struct {
	VideoURL    string `json:"videoUrl,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
	LastUpdated string `json:"lastUpdated"`
	Query       string `json:"query"`
}

// Gateway maps search phrases to previously resolved media URLs. Every
// operation fails soft: lookups degrade to a miss and stores are
// best-effort, so the gateway is never a hard dependency of a resolution.
type Gateway struct {
	store  Store
	prefix string
}

// New builds a gateway over the given store. A nil store yields a disabled
// gateway that behaves as a permanent cache miss, which is the degraded
// mode used when no backend credentials are available.
func New(store Store, prefix string) *Gateway {
	if prefix == "" {
		prefix = "media_cache"
	}
	return &Gateway{store: store, prefix: prefix}
}

// Enabled reports whether a backend is attached.
func (g *Gateway) Enabled() bool {
	return g != nil && g.store != nil
}

// Key derives the cache key for a phrase: lowercase, trimmed, alphanumerics
// only, truncated to 50 characters. Collisions are accepted by design.
func Key(phrase string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(phrase)) {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() >= maxKeyLen {
			break
		}
	}
	return b.String()
}

// Lookup returns the cached URL for a phrase and kind, or ok=false on a
// miss. I/O errors are logged and reported as misses; they never propagate.
func (g *Gateway) Lookup(ctx context.Context, phrase string, kind types.MediaKind) (string, bool) {
	if !g.Enabled() {
		return "", false
	}

	doc, err := g.store.Get(ctx, g.docKey(phrase))
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		logger.Warn("cache read failed", logger.String("query", phrase), logger.Err(err))
		return "", false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(doc), &entry); err != nil {
		logger.Warn("cache entry unreadable", logger.String("query", phrase), logger.Err(err))
		return "", false
	}

	if kind == types.MediaVideo && entry.VideoURL != "" {
		return entry.VideoURL, true
	}
	if kind == types.MediaImage && entry.ImageURL != "" {
		return entry.ImageURL, true
	}
	return "", false
}

// Poster returns the cached poster frame URL for a phrase, if any.
func (g *Gateway) Poster(ctx context.Context, phrase string) string {
	if !g.Enabled() {
		return ""
	}
	doc, err := g.store.Get(ctx, g.docKey(phrase))
	if err != nil {
		return ""
	}
	var entry Entry
	if json.Unmarshal([]byte(doc), &entry) != nil {
		return ""
	}
	return entry.PosterURL
}

// Store persists a resolved URL for a phrase. Failures are logged, not
// surfaced: the caller already holds a usable in-memory result.
func (g *Gateway) Store(ctx context.Context, phrase string, kind types.MediaKind, url, posterURL string) {
	if !g.Enabled() || url == "" {
		return
	}

	key := g.docKey(phrase)

	// Merge with any existing document so a video and an image resolution
	// for the same phrase do not clobber each other.
	var entry Entry
	if doc, err := g.store.Get(ctx, key); err == nil {
		_ = json.Unmarshal([]byte(doc), &entry)
	}

	if kind == types.MediaVideo {
		entry.VideoURL = url
		if posterURL != "" {
			entry.PosterURL = posterURL
		}
	} else {
		entry.ImageURL = url
	}
	entry.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	entry.Query = phrase

	doc, err := json.Marshal(entry)
	if err != nil {
		logger.Warn("cache entry marshal failed", logger.Err(err))
		return
	}
	if err := g.store.Set(ctx, key, string(doc)); err != nil {
		logger.Warn("cache write failed", logger.String("query", phrase), logger.Err(err))
		return
	}
	logger.Debug("cache saved", logger.String("query", phrase), logger.String("kind", string(kind)))
}

func (g *Gateway) docKey(phrase string) string {
	return g.prefix + ":" + Key(phrase)
}
