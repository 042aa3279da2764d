package player

import (
	"smart-tutor-pipeline/timeline"
	"smart-tutor-pipeline/types"
)

// State is the playback state machine's state.
type State int

const (
	StatePaused State = iota
	StatePlaying
)

// AudioTransport abstracts the narration audio element. The controller
// drives it and reads its position; it never learns which concrete media
// API sits underneath.
type AudioTransport interface {
	Play()
	Pause()
	Position() float64
	Duration() float64
	SetPosition(sec float64)
}

// Display abstracts the visible player surface: the image/video swap, the
// caption line, the progress bar and fullscreen presentation.
type Display interface {
	ShowImage(url string)
	ShowVideo(url string)
	PlayMotion()
	PauseMotion()
	SetCaption(text string)
	SetProgress(ratio float64)
	SetFullscreen(on bool)
}

// Controller is the playback state machine. It owns the session's playback
// state exclusively: which segment is visually active, whether narration is
// running, and the fullscreen flag layered orthogonally on top.
type Controller struct {
	session *Session
	audio   AudioTransport
	display Display

	state      State
	current    int
	fullscreen bool
}

// NewController binds a session to its transport and display and shows the
// first segment.
func NewController(session *Session, audio AudioTransport, display Display) *Controller {
	c := &Controller{
		session: session,
		audio:   audio,
		display: display,
		state:   StatePaused,
		current: -1,
	}
	c.applySegment(0)
	c.display.SetProgress(0)
	return c
}

// Play transitions Paused -> Playing. Starts the narration and, when the
// active segment is motion media, its playback too. No-op while Playing.
func (c *Controller) Play() {
	if c.state == StatePlaying {
		return
	}
	c.state = StatePlaying
	c.audio.Play()
	if c.activeKind() == types.MediaVideo {
		c.display.PlayMotion()
	}
}

// Pause transitions Playing -> Paused, halting narration and motion.
// No-op while Paused.
func (c *Controller) Pause() {
	if c.state == StatePaused {
		return
	}
	c.state = StatePaused
	c.audio.Pause()
	c.display.PauseMotion()
}

// HandleTimeUpdate recomputes the active segment for the given narration
// position, swapping the visible media on a change, and refreshes the
// progress ratio.
func (c *Controller) HandleTimeUpdate(positionSec float64) {
	if idx := timeline.FindActive(c.session.Segments, positionSec); idx != -1 && idx != c.current {
		c.applySegment(idx)
	}
	if total := c.session.DurationSec; total > 0 {
		c.display.SetProgress(positionSec / total)
	}
}

// Seek moves the narration to fraction*duration and immediately re-runs the
// segment lookup so scrubbing feels responsive instead of waiting for the
// next natural time update.
func (c *Controller) Seek(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	pos := fraction * c.session.DurationSec
	c.audio.SetPosition(pos)
	c.HandleTimeUpdate(pos)
}

// HandleEnded fires when the narration finishes a pass: pause, rewind to
// zero and show the first segment again. The machine stays restartable.
func (c *Controller) HandleEnded() {
	c.Pause()
	c.audio.SetPosition(0)
	c.applySegment(0)
	c.display.SetProgress(0)
}

// ToggleFullscreen flips the presentation flag. Orthogonal to playback
// state and idempotent per direction.
func (c *Controller) ToggleFullscreen() {
	c.fullscreen = !c.fullscreen
	c.display.SetFullscreen(c.fullscreen)
}

// State returns the current machine state.
func (c *Controller) State() State { return c.state }

// CurrentIndex returns the index of the visually active segment.
func (c *Controller) CurrentIndex() int { return c.current }

// Fullscreen reports the presentation flag.
func (c *Controller) Fullscreen() bool { return c.fullscreen }

func (c *Controller) activeKind() types.MediaKind {
	if c.current < 0 || c.current >= len(c.session.Segments) {
		return types.MediaImage
	}
	return c.session.Segments[c.current].Kind
}

func (c *Controller) applySegment(idx int) {
	if idx < 0 || idx >= len(c.session.Segments) {
		return
	}
	c.current = idx
	seg := c.session.Segments[idx]
	c.display.SetCaption(seg.Text)

	if seg.Kind == types.MediaVideo {
		c.display.ShowVideo(seg.MediaURL)
		if c.state == StatePlaying {
			c.display.PlayMotion()
		}
	} else {
		c.display.PauseMotion()
		c.display.ShowImage(seg.MediaURL)
	}
}
