// ABOUTME: Atomic sample rate cell shared between host and generator
// ABOUTME: Stores float64 bits in an atomic word so reads never tear
package audio

import (
	"math"
	"sync/atomic"
)

// DefaultSampleRate is used when nothing else has published a rate
const DefaultSampleRate = 44100.0

// SampleRate is a float64 that may be stored and loaded concurrently.
// The zero value reads as 0 Hz.
type SampleRate struct {
	bits atomic.Uint64
}

// NewSampleRate creates a cell holding hz
func NewSampleRate(hz float64) *SampleRate {
	r := &SampleRate{}
	r.Store(hz)
	return r
}

// Load returns the current rate in Hz
func (r *SampleRate) Load() float64 {
	return math.Float64frombits(r.bits.Load())
}

// Store overwrites the rate. No range check is applied here.
func (r *SampleRate) Store(hz float64) {
	r.bits.Store(math.Float64bits(hz))
}
