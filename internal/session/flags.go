package session

import "sync/atomic"

// Flags are the two edge-triggered presentation signals.
//
// The detector raises both on a qualifying stroke. Display and Audio each take
// their own flag, which reads and clears it in one step. A second raise before
// the take collapses into one observed event.
type Flags struct {
	image atomic.Bool
	audio atomic.Bool
}

// Raise sets both flags.
func (f *Flags) Raise() {
	f.image.Store(true)
	f.audio.Store(true)
}

// TakeImage reports and clears the image flag.
func (f *Flags) TakeImage() bool {
	return f.image.Swap(false)
}

// TakeAudio reports and clears the audio flag.
func (f *Flags) TakeAudio() bool {
	return f.audio.Swap(false)
}

// PeekImage reports the image flag without clearing it.
func (f *Flags) PeekImage() bool {
	return f.image.Load()
}

// PeekAudio reports the audio flag without clearing it.
func (f *Flags) PeekAudio() bool {
	return f.audio.Load()
}
