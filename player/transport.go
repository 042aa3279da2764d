package player

import "time"

// ClockTransport is a wall-clock AudioTransport for headless playback: it
// advances position in real time while playing without touching any audio
// device. Position is computed on read, so no goroutine runs behind it.
type ClockTransport struct {
	duration  float64
	playing   bool
	offset    float64
	startedAt time.Time
}

// NewClockTransport creates a paused transport at position zero.
func NewClockTransport(durationSec float64) *ClockTransport {
	return &ClockTransport{duration: durationSec}
}

func (t *ClockTransport) Play() {
	if t.playing {
		return
	}
	t.playing = true
	t.startedAt = time.Now()
}

func (t *ClockTransport) Pause() {
	if !t.playing {
		return
	}
	t.offset = t.Position()
	t.playing = false
}

func (t *ClockTransport) Position() float64 {
	pos := t.offset
	if t.playing {
		pos += time.Since(t.startedAt).Seconds()
	}
	if pos > t.duration {
		pos = t.duration
	}
	return pos
}

func (t *ClockTransport) Duration() float64 { return t.duration }

func (t *ClockTransport) SetPosition(sec float64) {
	if sec < 0 {
		sec = 0
	}
	if sec > t.duration {
		sec = t.duration
	}
	t.offset = sec
	t.startedAt = time.Now()
}

// Ended reports whether playback has reached the end of the track.
func (t *ClockTransport) Ended() bool {
	return t.Position() >= t.duration
}
