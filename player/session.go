package player

import "smart-tutor-pipeline/types"

// Session holds everything one generated explainer needs to play or export:
// the timed segment sequence and the narration track. The segment sequence
// is immutable for the life of the session; the playback controller owns
// the session and the exporter only borrows read access.
type Session struct {
	Topic       string
	Segments    []types.TimedSegment
	AudioPath   string
	DurationSec float64
}
