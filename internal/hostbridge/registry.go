// ABOUTME: Registry resolving the active host-driven stream for foreign entry points
// ABOUTME: Owns the sample rate setter and the buffer-fill shim used by wasm and WebSocket hosts
package hostbridge

import (
	"log"
	"math"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

// Registry is the boundary between an external runtime and the host-driven
// backend. The orchestrator registers its Host here instead of publishing it
// through a global.
type Registry struct {
	rate   *audio.SampleRate
	host   atomic.Pointer[output.Host]
	warned atomic.Bool
}

// NewRegistry creates a registry that publishes rate updates into rate
func NewRegistry(rate *audio.SampleRate) *Registry {
	return &Registry{rate: rate}
}

// Register makes h the target of Fill
func (r *Registry) Register(h *output.Host) {
	r.host.Store(h)
	r.warned.Store(false)
}

// Unregister clears h if it is still the active host
func (r *Registry) Unregister(h *output.Host) {
	r.host.CompareAndSwap(h, nil)
}

// Active returns the registered host, or nil
func (r *Registry) Active() *output.Host {
	return r.host.Load()
}

// Fill forwards a host buffer to the registered stream. Calls made before a
// stream is registered and started are ignored and logged once.
func (r *Registry) Fill(buf []float32, frames int) bool {
	h := r.host.Load()
	if h == nil || !h.Process(buf, frames) {
		if r.warned.CompareAndSwap(false, true) {
			log.Printf("Host requested audio before a stream was started, ignoring")
		}
		return false
	}
	return true
}

// SetSampleRate publishes a rate reported by the host. Values that are not
// positive and finite are rejected and the previous rate is kept.
func (r *Registry) SetSampleRate(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 0) {
		log.Printf("Rejected sample rate %v from host", hz)
		return audio.ErrInvalidSampleRate
	}
	r.rate.Store(hz)
	log.Printf("Sample rate set to %.0f Hz", hz)
	return nil
}

// Rate returns the cell that SetSampleRate publishes into
func (r *Registry) Rate() *audio.SampleRate {
	return r.rate
}

// SampleRate returns the currently published rate
func (r *Registry) SampleRate() float64 {
	return r.rate.Load()
}
