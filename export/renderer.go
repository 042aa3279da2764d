package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"smart-tutor-pipeline/config"
	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/player"
	"smart-tutor-pipeline/timeline"
	"smart-tutor-pipeline/types"
)

// ErrExportBusy means an export pass is already running. Concurrent passes
// are rejected, not interleaved: the canvas has a single owner.
var ErrExportBusy = errors.New("an export is already in progress")

// Renderer replays a session's timeline frame by frame onto the canvas and
// feeds the frames to a recorder. It borrows the session read-only and
// never mutates playback state.
type Renderer struct {
	cfg  config.Export
	busy atomic.Bool
}

// New creates a Renderer.
func New(cfg config.Export) *Renderer {
	return &Renderer{cfg: cfg}
}

// Export renders the whole timeline into the recorder and returns the path
// of the finalized file. Cancelling the context stops the frame loop early
// and finalizes whatever was captured so far.
func (r *Renderer) Export(ctx context.Context, session *player.Session, rec Recorder) (string, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return "", ErrExportBusy
	}
	defer r.busy.Store(false)

	if session == nil || len(session.Segments) == 0 || session.DurationSec <= 0 {
		return "", fmt.Errorf("nothing to export")
	}

	logger.Info("export started",
		logger.Float64("seconds", session.DurationSec),
		logger.Int("fps", r.cfg.FPS))

	if err := rec.Start(ctx); err != nil {
		return "", err
	}

	canvas := NewCanvas(r.cfg.Width, r.cfg.Height, r.cfg.CaptionHeight)
	totalFrames := int(session.DurationSec * float64(r.cfg.FPS))
	skipped := 0

frames:
	for frameIdx := 0; frameIdx < totalFrames; frameIdx++ {
		select {
		case <-ctx.Done():
			logger.Warn("export cancelled, finalizing partial capture")
			break frames
		default:
		}

		position := float64(frameIdx) / float64(r.cfg.FPS)
		canvas.Clear()

		if idx := timeline.FindActive(session.Segments, position); idx != -1 {
			seg := session.Segments[idx]
			if err := canvas.DrawCover(frameMedia(seg)); err != nil {
				// Soft failure: the frame keeps its background and caption.
				skipped++
			}
			canvas.DrawCaption(seg.Text)
		}

		if err := rec.WriteFrame(canvas.Frame()); err != nil {
			_, _ = rec.Stop()
			return "", fmt.Errorf("frame %d: %w", frameIdx, err)
		}
	}

	path, err := rec.Stop()
	if err != nil {
		return "", err
	}

	if skipped > 0 {
		logger.Warn("export finished with skipped media frames", logger.Int("skipped", skipped))
	}
	logger.Info("export ready", logger.String("path", path))
	return path, nil
}

// frameMedia picks the drawable handle for a segment: the decoded still for
// images, the poster frame for motion media. Nil when neither decoded.
func frameMedia(seg types.TimedSegment) image.Image {
	if seg.Kind == types.MediaVideo {
		return seg.Poster
	}
	return seg.Decoded
}
