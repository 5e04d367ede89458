// ABOUTME: Tests for audio types
// ABOUTME: Tests float32 codec and buffer helpers
package audio

import (
	"math"
	"testing"
)

func TestFloat32LERoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1, float32(math.Pi)}
	buf := make([]byte, len(samples)*BytesPerSample)
	PutFloat32LE(buf, samples)

	// 0.5 is 0x3f000000
	if buf[4] != 0x00 || buf[7] != 0x3f {
		t.Errorf("expected little-endian 0.5, got % x", buf[4:8])
	}

	decoded := make([]float32, len(samples))
	n := Float32LE(decoded, buf)
	if n != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), n)
	}
	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("sample %d: expected %f, got %f", i, samples[i], decoded[i])
		}
	}
}

func TestFloat32LEShortDestination(t *testing.T) {
	buf := make([]byte, 4*BytesPerSample)
	dst := make([]float32, 2)
	if n := Float32LE(dst, buf); n != 2 {
		t.Errorf("expected 2 samples, got %d", n)
	}
}

func TestFrameBytes(t *testing.T) {
	if got := FrameBytes(StereoChannels); got != 8 {
		t.Errorf("expected 8 bytes per stereo frame, got %d", got)
	}
}

func TestGrow(t *testing.T) {
	buf := make([]float32, 4, 16)
	grown := Grow(buf, 10)
	if len(grown) != 10 {
		t.Errorf("expected len 10, got %d", len(grown))
	}
	if &grown[0] != &buf[0] {
		t.Error("expected Grow to reuse the existing backing array")
	}

	bigger := Grow(buf, 32)
	if len(bigger) != 32 {
		t.Errorf("expected len 32, got %d", len(bigger))
	}
}
