// ABOUTME: Host-driven output backend
// ABOUTME: Forwards buffers supplied by an external runtime straight to the generator
package output

import (
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Host is a Stream whose invocation schedule belongs to an external runtime.
// It creates no thread; each Process call runs the generator synchronously
// in the caller's context. The host must not call Process concurrently.
type Host struct {
	gen atomic.Pointer[audio.Generator]
}

// NewHost creates an idle host-driven backend
func NewHost() *Host {
	return &Host{}
}

// Start stores gen for later Process calls. The host publishes the actual
// sample rate itself, so sampleRate is only validated. Starting again
// replaces the generator.
func (h *Host) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}
	h.gen.Store(&gen)
	return nil
}

// Stop does nothing: the host stops audio by no longer calling Process
func (h *Host) Stop() {}

// Process fills buf with frames of stereo audio. frames is clamped to what
// buf can hold. It returns false when no generator has been started.
func (h *Host) Process(buf []float32, frames int) bool {
	gen := h.gen.Load()
	if gen == nil {
		return false
	}
	if limit := len(buf) / audio.StereoChannels; frames > limit {
		frames = limit
	}
	if frames < 0 {
		frames = 0
	}
	(*gen)(buf[:frames*audio.StereoChannels], frames, audio.StereoChannels)
	return true
}

// Started reports whether a generator has been stored
func (h *Host) Started() bool {
	return h.gen.Load() != nil
}
