// ABOUTME: Tests for the stream contract helpers
// ABOUTME: Tests Start argument validation
package audio

import (
	"errors"
	"math"
	"testing"
)

func TestValidateStart(t *testing.T) {
	gen := func(buf []float32, frames, channels int) {}

	tests := []struct {
		name       string
		sampleRate float64
		gen        Generator
		expected   error
	}{
		{"valid", 44100, gen, nil},
		{"zero rate", 0, gen, ErrInvalidSampleRate},
		{"negative rate", -48000, gen, ErrInvalidSampleRate},
		{"NaN rate", math.NaN(), gen, ErrInvalidSampleRate},
		{"infinite rate", math.Inf(1), gen, ErrInvalidSampleRate},
		{"nil generator", 48000, nil, ErrNilGenerator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStart(tt.sampleRate, tt.gen)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}
