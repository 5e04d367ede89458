// ABOUTME: Continuous-phase sine oscillator
// ABOUTME: Fills interleaved buffers with a mono sine duplicated to every channel
package osc

import (
	"math"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

const (
	DefaultFrequency = 440.0 // A4 note
	DefaultAmplitude = 0.5

	twoPi = 2 * math.Pi
)

// Sine generates a sine wave whose phase carries across Fill calls.
// A Sine must not be filled from two goroutines at once.
type Sine struct {
	frequency float64
	amplitude float64
	rate      *audio.SampleRate
	phase     float64
}

// New creates a sine oscillator reading its sample rate from rate
func New(frequency, amplitude float64, rate *audio.SampleRate) *Sine {
	return &Sine{
		frequency: frequency,
		amplitude: amplitude,
		rate:      rate,
	}
}

// Fill writes frames*channels interleaved samples into buf.
// Every channel of a frame receives the same value.
func (s *Sine) Fill(buf []float32, frames, channels int) {
	phase := s.phase
	for frame := 0; frame < frames; frame++ {
		sample := float32(s.amplitude * math.Sin(phase))
		base := frame * channels
		for ch := 0; ch < channels; ch++ {
			buf[base+ch] = sample
		}

		phase += twoPi * s.frequency / s.rate.Load()
		if phase >= twoPi {
			phase -= twoPi
			// increment exceeded a full cycle
			if phase >= twoPi {
				phase = math.Mod(phase, twoPi)
			}
		}
	}
	s.phase = phase
}

// Generator returns Fill as an audio.Generator
func (s *Sine) Generator() audio.Generator {
	return s.Fill
}

// Phase returns the accumulator in radians
func (s *Sine) Phase() float64 {
	return s.phase
}

// Frequency returns the oscillator frequency in Hz
func (s *Sine) Frequency() float64 { return s.frequency }

// Amplitude returns the peak sample value
func (s *Sine) Amplitude() float64 { return s.amplitude }
