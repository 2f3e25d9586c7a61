// Package display selects the face animation and scrolling text for a session.
package display

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Frame timing.
const (
	// StepInterval is the display loop cadence.
	StepInterval = 100 * time.Millisecond
	// StimHold is how long each stimulation frame stays up.
	StimHold = 500 * time.Millisecond

	idleSwitchEvery    = 4
	successSwitchEvery = 10
)

// ImageFlag is the display's half of the presentation flags.
type ImageFlag interface {
	PeekImage() bool
	TakeImage() bool
}

// Frame is what the display shows for one step.
type Frame struct {
	// Blank suppresses output entirely.
	Blank bool
	Art   Art
	// Text is the visible marquee window.
	Text string
	// Stim is set while the stimulation splice is showing.
	Stim bool
	// Hold is the delay before the next step.
	Hold time.Duration
}

// Animator is the display-side state machine. It is driven from one goroutine.
type Animator struct {
	width int

	text   string
	offset int

	stimStep    int
	idleStep    int
	successStep int
}

// NewAnimator returns an Animator whose marquee is width columns wide.
func NewAnimator(width int) *Animator {
	if width < 1 {
		width = 1
	}
	return &Animator{width: width}
}

// Next advances one step and returns the frame to show.
func (a *Animator) Next(snap model.Snapshot, flag ImageFlag) Frame {
	if snap.Phase == model.PhaseIdle {
		a.text = ""
		a.offset = 0
		a.successStep = 0
		return Frame{Blank: true, Hold: StepInterval}
	}

	if text := textFor(snap.Phase, snap.Progress); text != a.text {
		a.text = text
		a.offset = 0
	}
	frame := Frame{Text: a.scroll(), Hold: StepInterval}

	switch {
	case flag != nil && flag.PeekImage():
		frame.Art = stimFrames(snap.Progress)[a.stimStep]
		frame.Stim = true
		frame.Hold = StimHold
		if a.stimStep == 1 {
			a.stimStep = 0
			flag.TakeImage()
		} else {
			a.stimStep++
		}
	case snap.Phase == model.PhaseSuccess:
		// The last frame also covers the two steps past the end of the
		// sequence, and the counter wraps back to 1.
		idx := min(a.successStep/successSwitchEvery, len(success)-1)
		frame.Art = success[idx]
		if a.successStep > successSwitchEvery*len(success) {
			a.successStep = 0
		}
		a.successStep++
	default:
		pair := idleFrames(snap.Progress)
		if snap.Phase == model.PhaseCooldown {
			pair = cool
		}
		frame.Art = pair[(a.idleStep/idleSwitchEvery)%2]
		a.idleStep++
		if a.idleStep >= 2*idleSwitchEvery {
			a.idleStep = 0
		}
	}
	return frame
}

// scroll returns the visible window and moves the marquee one column left.
// The text enters from the right edge and wraps after leaving the left edge.
func (a *Animator) scroll() string {
	track := strings.Repeat(" ", a.width) + a.text
	trackWidth := runewidth.StringWidth(track)
	visible := runewidth.TruncateLeft(track, a.offset, "")
	visible = runewidth.Truncate(visible, a.width, "")
	visible = runewidth.FillRight(visible, a.width)

	a.offset++
	if a.offset >= trackWidth {
		a.offset = 0
	}
	return visible
}
