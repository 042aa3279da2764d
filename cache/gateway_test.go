package cache

import (
	"context"
	"testing"

	"smart-tutor-pipeline/types"
)

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Photosynthesis", "photosynthesis"},
		{"  Solar Panels!  ", "solarpanels"},
		{"C-3PO & R2D2", "c3por2d2"},
		{"", ""},
		{"ALL CAPS 99", "allcaps99"},
	}
	for _, tt := range tests {
		if got := Key(tt.in); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKeyTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abc"
	}
	if got := Key(long); len(got) != 50 {
		t.Errorf("Key length = %d, want 50", len(got))
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemoryStore(), "media_cache")

	if url, ok := g.Lookup(ctx, "ocean waves", types.MediaVideo); ok {
		t.Fatalf("unexpected hit before store: %q", url)
	}

	g.Store(ctx, "ocean waves", types.MediaVideo, "https://cdn.example/waves.mp4", "https://cdn.example/waves.jpg")

	url, ok := g.Lookup(ctx, "ocean waves", types.MediaVideo)
	if !ok || url != "https://cdn.example/waves.mp4" {
		t.Fatalf("Lookup = %q, %v; want stored video URL, true", url, ok)
	}
	if poster := g.Poster(ctx, "ocean waves"); poster != "https://cdn.example/waves.jpg" {
		t.Errorf("Poster = %q, want stored poster", poster)
	}

	// Image lookup for the same phrase is still a miss.
	if _, ok := g.Lookup(ctx, "ocean waves", types.MediaImage); ok {
		t.Error("image lookup hit on a video-only entry")
	}
}

func TestGatewayMergesKinds(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemoryStore(), "media_cache")

	g.Store(ctx, "volcano", types.MediaVideo, "v.mp4", "")
	g.Store(ctx, "volcano", types.MediaImage, "i.jpg", "")

	if url, ok := g.Lookup(ctx, "volcano", types.MediaVideo); !ok || url != "v.mp4" {
		t.Errorf("video lookup after image store = %q, %v", url, ok)
	}
	if url, ok := g.Lookup(ctx, "volcano", types.MediaImage); !ok || url != "i.jpg" {
		t.Errorf("image lookup = %q, %v", url, ok)
	}
}

func TestGatewayDisabled(t *testing.T) {
	ctx := context.Background()
	g := New(nil, "media_cache")

	if g.Enabled() {
		t.Fatal("gateway with nil store reports enabled")
	}

	// Both operations must be safe no-ops.
	g.Store(ctx, "anything", types.MediaImage, "url", "")
	if _, ok := g.Lookup(ctx, "anything", types.MediaImage); ok {
		t.Error("disabled gateway returned a hit")
	}
}

func TestGatewayCollidingPhrases(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemoryStore(), "media_cache")

	// These sanitize to the same key; last write wins by design.
	g.Store(ctx, "solar-panels", types.MediaImage, "first.jpg", "")
	g.Store(ctx, "Solar Panels", types.MediaImage, "second.jpg", "")

	url, ok := g.Lookup(ctx, "solar panels", types.MediaImage)
	if !ok || url != "second.jpg" {
		t.Errorf("colliding lookup = %q, %v; want last write", url, ok)
	}
}
