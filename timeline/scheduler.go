package timeline

import (
	"errors"

	"smart-tutor-pipeline/types"
)

// ErrEmptyScript means every segment had empty narration text, leaving
// nothing to allocate time against.
var ErrEmptyScript = errors.New("script has no narration text")

// Schedule allocates each segment a window of the narration proportional to
// its text length. Windows tile [0, totalSec] exactly: each end equals the
// next start and the final end is clamped to totalSec so accumulated
// floating-point error cannot leak past the track.
func Schedule(segments []types.EnrichedSegment, totalSec float64) ([]types.TimedSegment, error) {
	totalChars := 0
	for _, s := range segments {
		totalChars += s.CharLen
	}
	if totalChars == 0 {
		return nil, ErrEmptyScript
	}

	timed := make([]types.TimedSegment, 0, len(segments))
	elapsed := 0.0
	for i, s := range segments {
		duration := totalSec * float64(s.CharLen) / float64(totalChars)
		end := elapsed + duration
		if i == len(segments)-1 {
			end = totalSec
			duration = end - elapsed
		}
		timed = append(timed, types.TimedSegment{
			EnrichedSegment: s,
			StartSec:        elapsed,
			EndSec:          end,
			DurationSec:     duration,
		})
		elapsed = end
	}
	return timed, nil
}

// FindActive returns the index of the segment whose window [start, end)
// contains the playback position, or -1 when no window does.
func FindActive(segments []types.TimedSegment, positionSec float64) int {
	for i, s := range segments {
		if positionSec >= s.StartSec && positionSec < s.EndSec {
			return i
		}
	}
	return -1
}
