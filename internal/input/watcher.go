package input

import (
	"context"
	"time"

	"github.com/verte-zerg/strokebot/internal/model"
)

// Poll cadences.
const (
	PollInterval     = 100 * time.Millisecond
	SlowPollInterval = time.Second
)

// PhaseReader exposes the published session phase.
type PhaseReader interface {
	Phase() model.Phase
}

// Clock stamps accepted presses.
type Clock interface {
	Now() time.Time
}

// Watcher polls one Source and forwards its presses.
//
// While the session celebrates, pending edges are discarded and the watcher
// slows down to SlowPollInterval.
type Watcher struct {
	binding Binding
	source  Source
	phase   PhaseReader
	clock   Clock
	out     chan<- model.PressEvent
}

// NewWatcher builds a watcher that sends on out.
func NewWatcher(b Binding, src Source, phase PhaseReader, clock Clock, out chan<- model.PressEvent) *Watcher {
	return &Watcher{binding: b, source: src, phase: phase, clock: clock, out: out}
}

// Binding returns the watched input.
func (w *Watcher) Binding() Binding {
	return w.binding
}

// Poll handles at most one pending edge and returns how long to wait before
// the next poll. A forwarded press is returned with ok set.
func (w *Watcher) Poll() (ev model.PressEvent, ok bool, wait time.Duration) {
	if w.phase.Phase().Celebrating() {
		for {
			if _, got := w.source.Poll(); !got {
				break
			}
		}
		return model.PressEvent{}, false, SlowPollInterval
	}
	edge, got := w.source.Poll()
	if !got || !edge.Pressed {
		return model.PressEvent{}, false, PollInterval
	}
	at := edge.At
	if at.IsZero() {
		at = w.clock.Now()
	}
	return model.PressEvent{Role: w.binding.Role, At: at}, true, PollInterval
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	for {
		ev, ok, wait := w.Poll()
		if ok {
			select {
			case w.out <- ev:
			case <-ctx.Done():
				return
			}
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// StartAll launches one watcher goroutine per binding, using sources keyed by
// binding name. Bindings without a source are skipped.
func StartAll(ctx context.Context, bindings []Binding, sources map[string]Source, phase PhaseReader, clock Clock, out chan<- model.PressEvent) []*Watcher {
	watchers := make([]*Watcher, 0, len(bindings))
	for _, b := range bindings {
		src, ok := sources[b.Name]
		if !ok {
			continue
		}
		w := NewWatcher(b, src, phase, clock, out)
		watchers = append(watchers, w)
		go w.Run(ctx)
	}
	return watchers
}
