// ABOUTME: Generator gate shared by thread-owning backends
// ABOUTME: Guarantees no generator call happens after Stop returns
package output

import (
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// callbackGate holds the generator of a running stream. The driver thread
// invokes through it; close blocks until any in-flight invocation finishes.
type callbackGate struct {
	mu  sync.Mutex
	gen audio.Generator
}

func (g *callbackGate) open(gen audio.Generator) {
	g.mu.Lock()
	g.gen = gen
	g.mu.Unlock()
}

func (g *callbackGate) close() {
	g.mu.Lock()
	g.gen = nil
	g.mu.Unlock()
}

// invoke fills buf with frames of stereo audio, or silence when closed.
// It reports whether the generator ran.
func (g *callbackGate) invoke(buf []float32, frames int) bool {
	n := frames * audio.StereoChannels

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen == nil {
		clear(buf[:n])
		return false
	}
	g.gen(buf[:n], frames, audio.StereoChannels)
	return true
}
