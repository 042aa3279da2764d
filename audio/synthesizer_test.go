package audio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"smart-tutor-pipeline/config"
)

func newTestSynthesizer(t *testing.T, handler http.HandlerFunc) *Synthesizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := New("test-key", config.Speech{GeminiModel: "tts-test", Voice: "Zephyr"})
	s.endpoint = srv.URL
	return s
}

func inlineDataBody(b64 string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":%q}}]}}]}`, b64)
}

func TestSynthesizeWritesTrack(t *testing.T) {
	pcm := make([]byte, 48000*2) // two seconds of silence
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, inlineDataBody(base64.StdEncoding.EncodeToString(pcm)))
	})

	dir := t.TempDir()
	track, err := s.Synthesize(context.Background(), "Hello world.", dir)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	if math.Abs(track.DurationSec-2.0) > 1e-9 {
		t.Errorf("DurationSec = %v, want 2", track.DurationSec)
	}
	if track.Path != filepath.Join(dir, "narration.wav") {
		t.Errorf("Path = %q", track.Path)
	}
	onDisk, err := os.ReadFile(track.Path)
	if err != nil {
		t.Fatalf("read track: %v", err)
	}
	if len(onDisk) != headerLen+len(pcm) {
		t.Errorf("file length = %d, want %d", len(onDisk), headerLen+len(pcm))
	}
	if len(track.WAV) != len(onDisk) {
		t.Errorf("in-memory WAV length %d != file length %d", len(track.WAV), len(onDisk))
	}
}

func TestSynthesizeNoAudio(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"empty payload", inlineDataBody("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			_, err := s.Synthesize(context.Background(), "text", t.TempDir())
			if !errors.Is(err, ErrNoAudio) {
				t.Errorf("got %v, want ErrNoAudio", err)
			}
		})
	}
}

func TestSynthesizeProviderError(t *testing.T) {
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	})

	_, err := s.Synthesize(context.Background(), "text", t.TempDir())
	if err == nil {
		t.Fatal("expected error on provider failure")
	}
	if errors.Is(err, ErrNoAudio) {
		t.Errorf("provider failure misreported as ErrNoAudio: %v", err)
	}
}
