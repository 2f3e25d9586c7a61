// Package input turns physical press edges into press events for the engine.
package input

import "time"

// Edge is one press or release transition reported by a source.
type Edge struct {
	Pressed bool
	At      time.Time
}

// Source yields debounced edges for a single physical input.
type Source interface {
	// Poll returns the next pending edge without blocking.
	Poll() (Edge, bool)
}

const keyQueueLen = 16

// KeySource is a Source fed by keyboard events.
type KeySource struct {
	edges chan Edge
}

// NewKeySource returns an empty KeySource.
func NewKeySource() *KeySource {
	return &KeySource{edges: make(chan Edge, keyQueueLen)}
}

// Press queues a press edge. It reports false when the queue is full and the
// edge was dropped.
func (k *KeySource) Press(at time.Time) bool {
	return k.push(Edge{Pressed: true, At: at})
}

// Release queues a release edge.
func (k *KeySource) Release(at time.Time) bool {
	return k.push(Edge{Pressed: false, At: at})
}

func (k *KeySource) push(e Edge) bool {
	select {
	case k.edges <- e:
		return true
	default:
		return false
	}
}

// Poll implements Source.
func (k *KeySource) Poll() (Edge, bool) {
	select {
	case e := <-k.edges:
		return e, true
	default:
		return Edge{}, false
	}
}
