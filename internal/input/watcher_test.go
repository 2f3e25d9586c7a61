package input

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/strokebot/internal/model"
)

var t0 = time.Unix(1_700_000_000, 0)

type stubPhase struct {
	v atomic.Int32
}

func (p *stubPhase) Phase() model.Phase { return model.Phase(p.v.Load()) }

func (p *stubPhase) set(ph model.Phase) { p.v.Store(int32(ph)) }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestKeySource_QueueAndOverflow(t *testing.T) {
	k := NewKeySource()
	_, ok := k.Poll()
	assert.False(t, ok)

	for i := 0; i < keyQueueLen; i++ {
		require.True(t, k.Press(t0))
	}
	assert.False(t, k.Press(t0), "a full queue drops the edge")

	e, ok := k.Poll()
	require.True(t, ok)
	assert.True(t, e.Pressed)
}

func TestWatcher_ForwardsPressesOnly(t *testing.T) {
	k := NewKeySource()
	phase := &stubPhase{}
	b := DefaultBindings()[4]
	w := NewWatcher(b, k, phase, fixedClock{now: t0}, nil)

	k.Release(t0)
	_, ok, wait := w.Poll()
	assert.False(t, ok, "release edges are not presses")
	assert.Equal(t, PollInterval, wait)

	k.Press(t0.Add(time.Second))
	ev, ok, wait := w.Poll()
	require.True(t, ok)
	assert.Equal(t, model.PressEvent{Role: model.RoleSecond, At: t0.Add(time.Second)}, ev)
	assert.Equal(t, PollInterval, wait)
}

func TestWatcher_OneEdgePerPoll(t *testing.T) {
	k := NewKeySource()
	w := NewWatcher(DefaultBindings()[0], k, &stubPhase{}, fixedClock{now: t0}, nil)
	k.Press(t0)
	k.Press(t0.Add(10 * time.Millisecond))

	_, ok, _ := w.Poll()
	require.True(t, ok)
	ev, ok, _ := w.Poll()
	require.True(t, ok)
	assert.Equal(t, t0.Add(10*time.Millisecond), ev.At)
	_, ok, _ = w.Poll()
	assert.False(t, ok)
}

func TestWatcher_ZeroTimestampUsesClock(t *testing.T) {
	k := NewKeySource()
	w := NewWatcher(DefaultBindings()[2], k, &stubPhase{}, fixedClock{now: t0}, nil)
	k.Press(time.Time{})
	ev, ok, _ := w.Poll()
	require.True(t, ok)
	assert.Equal(t, t0, ev.At)
	assert.Equal(t, model.RoleThird, ev.Role)
}

func TestWatcher_IgnoresDuringCelebration(t *testing.T) {
	k := NewKeySource()
	phase := &stubPhase{}
	w := NewWatcher(DefaultBindings()[0], k, phase, fixedClock{now: t0}, nil)

	for _, ph := range []model.Phase{model.PhaseSuccess, model.PhaseCooldown} {
		phase.set(ph)
		k.Press(t0)
		k.Press(t0)
		_, ok, wait := w.Poll()
		assert.False(t, ok, "phase %s", ph)
		assert.Equal(t, SlowPollInterval, wait)
	}

	phase.set(model.PhaseIdle)
	_, ok, wait := w.Poll()
	assert.False(t, ok, "presses made while celebrating are discarded")
	assert.Equal(t, PollInterval, wait)
}

func TestStartAll_SixProducersOneChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan model.PressEvent, 8)
	sources := map[string]Source{}
	keys := map[string]*KeySource{}
	for _, b := range DefaultBindings() {
		k := NewKeySource()
		keys[b.Name] = k
		sources[b.Name] = k
	}
	watchers := StartAll(ctx, DefaultBindings(), sources, &stubPhase{}, fixedClock{now: t0}, out)
	require.Len(t, watchers, 6)

	keys["LEFT_1"].Press(t0)
	keys["RIGHT_1"].Press(t0.Add(time.Millisecond))

	roles := map[model.Role]int{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-out:
			roles[ev.Role]++
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for presses")
		}
	}
	assert.Equal(t, 2, roles[model.RoleFirst], "both sides map to the same role")
}
