package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"smart-tutor-pipeline/audio"
	"smart-tutor-pipeline/player"
	"smart-tutor-pipeline/types"
)

type fakeScript struct {
	segments []types.Segment
	err      error
}

func (f *fakeScript) Generate(_ context.Context, _ string) ([]types.Segment, error) {
	return f.segments, f.err
}

type fakeEnrich struct{}

func (f *fakeEnrich) Enrich(_ context.Context, segments []types.Segment) ([]types.EnrichedSegment, error) {
	out := make([]types.EnrichedSegment, 0, len(segments))
	for _, s := range segments {
		out = append(out, types.EnrichedSegment{
			Segment:  s,
			Kind:     types.MediaImage,
			MediaURL: "https://cdn.example/" + s.Query + ".jpg",
			CharLen:  s.CharLen(),
		})
	}
	return out, nil
}

type fakeSpeech struct {
	mu          sync.Mutex
	calls       int
	texts       []string
	durationSec float64
	beforeReply func() // runs before returning, to model a slow provider
}

func (f *fakeSpeech) Synthesize(_ context.Context, fullText, outDir string) (*audio.Track, error) {
	f.mu.Lock()
	f.calls++
	f.texts = append(f.texts, fullText)
	f.mu.Unlock()
	if f.beforeReply != nil {
		f.beforeReply()
	}
	return &audio.Track{Path: outDir + "/narration.wav", DurationSec: f.durationSec}, nil
}

func script4() []types.Segment {
	return []types.Segment{
		{Text: "abc", Query: "q one"},
		{Text: "def", Query: "q two"},
		{Text: "ghi", Query: "q three"},
		{Text: "jkl", Query: "q four"},
	}
}

func TestGenerateBuildsSession(t *testing.T) {
	speech := &fakeSpeech{durationSec: 12}
	g := New(&fakeScript{segments: script4()}, &fakeEnrich{}, speech, t.TempDir())

	res, err := g.Generate(context.Background(), "  photosynthesis  ")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	s := res.Session
	if s.Topic != "photosynthesis" {
		t.Errorf("topic = %q, want trimmed", s.Topic)
	}
	if len(s.Segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(s.Segments))
	}
	if s.DurationSec != 12 {
		t.Errorf("DurationSec = %v, want 12", s.DurationSec)
	}

	// Equal char lengths: four contiguous 3-second windows covering 0..12.
	var sum float64
	for i, seg := range s.Segments {
		sum += seg.DurationSec
		if math.Abs(seg.DurationSec-3.0) > 1e-6 {
			t.Errorf("segment %d duration = %v, want 3", i, seg.DurationSec)
		}
	}
	if math.Abs(sum-12.0) > 1e-6 {
		t.Errorf("window sum = %v, want 12", sum)
	}
	if s.Segments[0].StartSec != 0 || math.Abs(s.Segments[3].EndSec-12.0) > 1e-6 {
		t.Errorf("timeline spans [%v, %v], want [0, 12]",
			s.Segments[0].StartSec, s.Segments[3].EndSec)
	}

	// The narration is the joined script text.
	if want := "abc def ghi jkl"; speech.texts[0] != want {
		t.Errorf("narration text = %q, want %q", speech.texts[0], want)
	}
	if s.AudioPath == "" || !strings.HasSuffix(s.AudioPath, "narration.wav") {
		t.Errorf("AudioPath = %q", s.AudioPath)
	}
	if res.RunID == "" || res.RunID != g.Current() {
		t.Errorf("RunID = %q, current = %q", res.RunID, g.Current())
	}

	// The session is directly playable: the controller starts on segment 0
	// and a mid-track seek lands on the window covering the 6-second mark.
	c := player.NewController(s, player.NewClockTransport(s.DurationSec), noopDisplay{})
	if c.CurrentIndex() != 0 {
		t.Errorf("controller starts at segment %d, want 0", c.CurrentIndex())
	}
	c.Seek(0.5)
	want := -1
	for i, seg := range s.Segments {
		if 6.0 >= seg.StartSec && 6.0 < seg.EndSec {
			want = i
		}
	}
	if c.CurrentIndex() != want {
		t.Errorf("seek(0.5) landed on segment %d, want %d", c.CurrentIndex(), want)
	}
}

type noopDisplay struct{}

func (noopDisplay) ShowImage(string)    {}
func (noopDisplay) ShowVideo(string)    {}
func (noopDisplay) PlayMotion()         {}
func (noopDisplay) PauseMotion()        {}
func (noopDisplay) SetCaption(string)   {}
func (noopDisplay) SetProgress(float64) {}
func (noopDisplay) SetFullscreen(bool)  {}

func TestGenerateScriptFailureSkipsSpeech(t *testing.T) {
	speech := &fakeSpeech{durationSec: 12}
	scriptErr := errors.New("model returned prose")
	g := New(&fakeScript{err: scriptErr}, &fakeEnrich{}, speech, t.TempDir())

	_, err := g.Generate(context.Background(), "photosynthesis")
	if !errors.Is(err, scriptErr) {
		t.Fatalf("got %v, want the script error", err)
	}
	if speech.calls != 0 {
		t.Errorf("speech called %d times after a failed script", speech.calls)
	}
}

func TestGenerateEmptyTopic(t *testing.T) {
	g := New(&fakeScript{segments: script4()}, &fakeEnrich{}, &fakeSpeech{durationSec: 1}, t.TempDir())
	if _, err := g.Generate(context.Background(), "   "); err == nil {
		t.Error("blank topic accepted")
	}
}

func TestGenerateSupersededRunIsDropped(t *testing.T) {
	var g *Generator

	// The first run stalls in its narration stage while a second run starts
	// and finishes, claiming the generation token.
	speech := &fakeSpeech{durationSec: 12}
	speech.beforeReply = func() {
		speech.beforeReply = nil
		newer, err := g.Generate(context.Background(), "second topic")
		if err != nil {
			t.Errorf("newer run failed: %v", err)
			return
		}
		if newer.RunID != g.Current() {
			t.Errorf("newer run did not claim the token")
		}
	}
	g = New(&fakeScript{segments: script4()}, &fakeEnrich{}, speech, t.TempDir())

	_, err := g.Generate(context.Background(), "first topic")
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale run returned %v, want ErrSuperseded", err)
	}
}
