// Package simulate runs the engine over a press script on a virtual clock.
package simulate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/strokebot/internal/engine"
	"github.com/verte-zerg/strokebot/internal/input"
	"github.com/verte-zerg/strokebot/internal/model"
	"github.com/verte-zerg/strokebot/internal/session"
)

// Step is the virtual clock resolution, matching the input poll cadence.
const Step = input.PollInterval

// maxSettle bounds how long the run continues after the script ends.
const maxSettle = session.IdleTimeout + session.SuccessHold + session.CooldownHold + 2*time.Second

// Clock is a manually advanced engine.Clock.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Options configures a run.
type Options struct {
	Settings model.Settings
	Journal  engine.Journal
	Engine   engine.Options
	// Settle keeps the clock running after the script until the session is idle.
	Settle bool
}

// Report summarizes a run.
type Report struct {
	Transitions []session.Transition
	Ingested    int
	// Dropped counts presses ignored during the success sequence.
	Dropped     int
	PeakStrokes int
	Successes   int
	Final       model.Snapshot
}

// Run feeds events to a fresh engine in Step increments, ticking every
// engine.TickInterval. Events must be in time order.
func Run(ctx context.Context, events []model.PressEvent, opts Options) (Report, error) {
	var report Report
	if len(events) == 0 {
		return report, fmt.Errorf("press script is empty")
	}
	clock := NewClock(events[0].At)
	engOpts := opts.Engine
	engOpts.Clock = clock
	if opts.Journal != nil {
		engOpts.Journal = opts.Journal
	}
	eng := engine.New(session.New(opts.Settings), engOpts)

	ticksEvery := int(engine.TickInterval / Step)
	step := 0
	next := 0
	var settled time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		now := clock.Now()
		for next < len(events) && !events[next].At.After(now) {
			if eng.Phase().Celebrating() {
				report.Dropped++
			} else {
				eng.Ingest(events[next])
				report.Ingested++
			}
			next++
		}
		step++
		if step%ticksEvery == 0 {
			if tr, ok := eng.Step(ctx, now); ok {
				report.Transitions = append(report.Transitions, tr)
				if tr.To == model.PhaseSuccess {
					report.Successes++
				}
			}
			if count := eng.Snapshot().StrokeCount; count > report.PeakStrokes {
				report.PeakStrokes = count
			}
		}
		// Presses fed since the last tick still need one pass before stopping.
		if next >= len(events) {
			if step%ticksEvery == 0 &&
				(!opts.Settle || eng.Phase() == model.PhaseIdle || settled >= maxSettle) {
				break
			}
			settled += Step
		}
		clock.Advance(Step)
	}
	report.Final = eng.Snapshot()
	return report, nil
}

// Print writes a human readable transcript of report.
func (r Report) Print(w io.Writer, start time.Time) error {
	for _, tr := range r.Transitions {
		if _, err := fmt.Fprintf(w, "%8s  %-8s -> %-8s  strokes %d\n",
			tr.At.Sub(start).Truncate(100*time.Millisecond), tr.From, tr.To, tr.Strokes); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "presses %d (dropped %d), peak strokes %d, successes %d, final phase %s\n",
		r.Ingested, r.Dropped, r.PeakStrokes, r.Successes, r.Final.Phase)
	return err
}
