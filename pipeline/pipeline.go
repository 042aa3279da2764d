package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"smart-tutor-pipeline/audio"
	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/player"
	"smart-tutor-pipeline/timeline"
	"smart-tutor-pipeline/types"
)

// ErrSuperseded means a newer generation started while this one was in
// flight; its result is discarded instead of overwriting the newer state.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// ScriptService produces the ordered narration/search-phrase segments.
type ScriptService interface {
	Generate(ctx context.Context, topic string) ([]types.Segment, error)
}

// EnrichService resolves media for every segment.
type EnrichService interface {
	Enrich(ctx context.Context, segments []types.Segment) ([]types.EnrichedSegment, error)
}

// SpeechService synthesizes the narration track.
type SpeechService interface {
	Synthesize(ctx context.Context, fullText, outDir string) (*audio.Track, error)
}

// Result is one finished generation: the playable session plus the token
// that stamped the run.
type Result struct {
	Session *player.Session
	Track   *audio.Track
	RunID   string
}

// Generator runs the full explainer pipeline: topic -> script -> enriched
// segments -> narration -> timeline -> session. Each run is stamped with a
// token; starting a new run abandons older in-flight ones, whose results
// are dropped instead of racing the newer session.
type Generator struct {
	script ScriptService
	enrich EnrichService
	speech SpeechService
	outDir string

	mu      sync.Mutex
	current string
}

// New wires a Generator.
func New(script ScriptService, enrich EnrichService, speech SpeechService, outDir string) *Generator {
	return &Generator{
		script: script,
		enrich: enrich,
		speech: speech,
		outDir: outDir,
	}
}

// Generate produces a playable explainer session for a topic.
func (g *Generator) Generate(ctx context.Context, topic string) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("empty topic")
	}

	runID := uuid.NewString()[:8]
	g.mu.Lock()
	g.current = runID
	g.mu.Unlock()

	runDir := filepath.Join(g.outDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	logger.Info("generation started",
		logger.String("run_id", runID),
		logger.String("topic", topic))

	segments, err := g.script.Generate(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("script stage: %w", err)
	}

	enriched, err := g.enrich.Enrich(ctx, segments)
	if err != nil {
		return nil, fmt.Errorf("media stage: %w", err)
	}

	texts := make([]string, 0, len(enriched))
	for _, s := range enriched {
		texts = append(texts, s.Text)
	}
	track, err := g.speech.Synthesize(ctx, strings.Join(texts, " "), runDir)
	if err != nil {
		return nil, fmt.Errorf("narration stage: %w", err)
	}

	timed, err := timeline.Schedule(enriched, track.DurationSec)
	if err != nil {
		return nil, fmt.Errorf("timeline stage: %w", err)
	}

	// A slow run that lost the race to a newer one must not publish.
	g.mu.Lock()
	stale := g.current != runID
	g.mu.Unlock()
	if stale {
		logger.Warn("dropping stale generation", logger.String("run_id", runID))
		return nil, ErrSuperseded
	}

	session := &player.Session{
		Topic:       topic,
		Segments:    timed,
		AudioPath:   track.Path,
		DurationSec: track.DurationSec,
	}

	logger.Info("generation complete",
		logger.String("run_id", runID),
		logger.Int("segments", len(timed)),
		logger.Float64("seconds", track.DurationSec))

	return &Result{Session: session, Track: track, RunID: runID}, nil
}

// Current returns the token of the most recently started run.
func (g *Generator) Current() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}
