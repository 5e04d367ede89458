// ABOUTME: Real-time stream contract implemented by every output backend
// ABOUTME: Defines Generator callback, Stream interface and setup errors
package audio

import (
	"errors"
	"math"
)

// StereoChannels is the channel count every stream is opened with
const StereoChannels = 2

var (
	// ErrInvalidSampleRate is returned when a stream is started with a rate that is not a positive finite number
	ErrInvalidSampleRate = errors.New("sample rate must be a positive finite number")
	// ErrNilGenerator is returned when a stream is started without a generator
	ErrNilGenerator = errors.New("generator must not be nil")
	// ErrAlreadyStarted is returned when Start is called on a running stream
	ErrAlreadyStarted = errors.New("stream already started")
	// ErrBackendUnavailable is returned when the backend cannot reach an output device
	ErrBackendUnavailable = errors.New("audio backend not available")
)

// Generator fills buf with frames*channels interleaved samples.
//
// It runs on the backend's real-time path: it must not block, allocate or
// touch buf outside buf[:frames*channels].
type Generator func(buf []float32, frames, channels int)

// Stream is an audio output that repeatedly pulls samples from a Generator
type Stream interface {
	// Start begins invoking gen at a backend-determined cadence.
	// On error no resources are left open.
	Start(sampleRate float64, gen Generator) error

	// Stop halts generator invocations and releases backend resources.
	// It is safe to call more than once, or without a prior Start.
	Stop()
}

// ValidateStart checks the arguments shared by every Stream.Start implementation
func ValidateStart(sampleRate float64, gen Generator) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return ErrInvalidSampleRate
	}
	if gen == nil {
		return ErrNilGenerator
	}
	return nil
}
