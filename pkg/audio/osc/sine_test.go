// ABOUTME: Tests for the sine oscillator
// ABOUTME: Tests phase continuity, channel duplication, wraparound and rate changes
package osc

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

const tolerance = 1e-5

func TestSinePhaseContinuity(t *testing.T) {
	const total = 1000
	channels := audio.StereoChannels

	whole := New(440, 0.5, audio.NewSampleRate(44100))
	expected := make([]float32, total*channels)
	whole.Fill(expected, total, channels)

	split := New(440, 0.5, audio.NewSampleRate(44100))
	got := make([]float32, 0, total*channels)
	for _, frames := range []int{1, 7, 0, 128, 333, 531} {
		buf := make([]float32, frames*channels)
		split.Fill(buf, frames, channels)
		got = append(got, buf...)
	}

	if len(got) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("sample %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
	if split.Phase() != whole.Phase() {
		t.Errorf("expected phase %v, got %v", whole.Phase(), split.Phase())
	}
}

func TestSineFirstSampleOfNextCall(t *testing.T) {
	s := New(440, 0.5, audio.NewSampleRate(44100))
	buf := make([]float32, 64*2)
	s.Fill(buf, 64, 2)

	phase := s.Phase()
	next := make([]float32, 2)
	s.Fill(next, 1, 2)

	expected := float32(0.5 * math.Sin(phase))
	if next[0] != expected {
		t.Errorf("expected %v, got %v", expected, next[0])
	}
}

func TestSineChannelDuplication(t *testing.T) {
	for _, channels := range []int{1, 2, 3, 6} {
		s := New(1000, 0.8, audio.NewSampleRate(48000))
		frames := 257
		buf := make([]float32, frames*channels)
		s.Fill(buf, frames, channels)

		for frame := 0; frame < frames; frame++ {
			first := buf[frame*channels]
			for ch := 1; ch < channels; ch++ {
				if buf[frame*channels+ch] != first {
					t.Fatalf("channels=%d frame=%d: channel %d has %v, expected %v",
						channels, frame, ch, buf[frame*channels+ch], first)
				}
			}
		}
	}
}

func TestSineWraparound(t *testing.T) {
	tests := []struct {
		name      string
		frequency float64
		rate      float64
	}{
		{"A4 at CD rate", 440, 44100},
		{"near nyquist", 23999, 48000},
		{"increment over one cycle", 440, 100},
		{"increment many cycles", 20000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.frequency, 1, audio.NewSampleRate(tt.rate))
			buf := make([]float32, 4096*2)
			for _, frames := range []int{0, 1, 2, 511, 4096, 3} {
				s.Fill(buf, frames, 2)
				if p := s.Phase(); p < 0 || p >= 2*math.Pi {
					t.Fatalf("after %d frames phase %v left [0, 2π)", frames, p)
				}
			}
		})
	}
}

func TestSineWrapSubtractsRatherThanResets(t *testing.T) {
	rate, frequency := 44100.0, 440.0
	s := New(frequency, 0.5, audio.NewSampleRate(rate))
	increment := twoPi * frequency / rate

	// 101 frames crosses 2π exactly once
	buf := make([]float32, 101*2)
	s.Fill(buf, 101, 2)

	var expected float64
	for i := 0; i < 101; i++ {
		expected += increment
		if expected >= twoPi {
			expected -= twoPi
		}
	}
	if expected == 0 {
		t.Fatal("test setup: expected non-zero residual after wrap")
	}
	if s.Phase() != expected {
		t.Errorf("expected phase %v, got %v", expected, s.Phase())
	}
}

func TestSineZeroFrames(t *testing.T) {
	s := New(440, 0.5, audio.NewSampleRate(44100))
	s.Fill(make([]float32, 10*2), 10, 2)
	before := s.Phase()

	buf := []float32{7, 7, 7, 7}
	s.Fill(buf, 0, 2)

	for i, v := range buf {
		if v != 7 {
			t.Errorf("slot %d: expected untouched 7, got %v", i, v)
		}
	}
	if s.Phase() != before {
		t.Errorf("expected phase %v unchanged, got %v", before, s.Phase())
	}
}

func TestSineWritesOnlyRequestedExtent(t *testing.T) {
	s := New(440, 0.5, audio.NewSampleRate(44100))
	buf := make([]float32, 20)
	for i := range buf {
		buf[i] = 9
	}

	s.Fill(buf, 4, 2)

	for i := 8; i < len(buf); i++ {
		if buf[i] != 9 {
			t.Errorf("slot %d beyond extent was written: %v", i, buf[i])
		}
	}
}

func TestSineA4Scenario(t *testing.T) {
	const (
		amplitude = 0.5
		frequency = 440.0
		rate      = 44100.0
	)
	s := New(frequency, amplitude, audio.NewSampleRate(rate))
	increment := 2 * math.Pi * frequency / rate

	if math.Abs(increment-0.0627) > 1e-4 {
		t.Fatalf("expected increment ≈ 0.0627 rad, got %v", increment)
	}

	frame := make([]float32, 2)
	var last float32
	for i := 0; i < 100; i++ {
		s.Fill(frame, 1, 2)
		if i == 0 && (frame[0] != 0 || frame[1] != 0) {
			t.Fatalf("expected first frame 0.0 on both channels, got %v", frame)
		}
		last = frame[0]
	}

	expectedPhase := math.Mod(100*increment, 2*math.Pi)
	if math.Abs(s.Phase()-expectedPhase) > 1e-9 {
		t.Errorf("expected phase %v, got %v", expectedPhase, s.Phase())
	}

	// the 100th sample is emitted before the 100th increment
	expectedSample := amplitude * math.Sin(99*increment)
	if math.Abs(float64(last)-expectedSample) > tolerance {
		t.Errorf("expected 100th sample %v, got %v", expectedSample, last)
	}

	// the next sample is taken at the phase reached after 100 frames
	phaseAfter100 := s.Phase()
	s.Fill(frame, 1, 2)
	next := amplitude * math.Sin(phaseAfter100)
	if math.Abs(float64(frame[0])-next) > tolerance {
		t.Errorf("expected 101st sample %v, got %v", next, frame[0])
	}
	if math.Abs(phaseAfter100-6.26894) > 1e-5 {
		t.Errorf("expected phase ≈ 6.26894 rad after 100 frames, got %v", phaseAfter100)
	}
}

func TestSineParameters(t *testing.T) {
	s := New(DefaultFrequency, DefaultAmplitude, audio.NewSampleRate(audio.DefaultSampleRate))
	if s.Frequency() != 440 {
		t.Errorf("expected frequency 440, got %v", s.Frequency())
	}
	if s.Amplitude() != 0.5 {
		t.Errorf("expected amplitude 0.5, got %v", s.Amplitude())
	}
	if s.Phase() != 0 {
		t.Errorf("expected initial phase 0, got %v", s.Phase())
	}
}

func TestSineSampleRateChangeBetweenCalls(t *testing.T) {
	rate := audio.NewSampleRate(44100)
	s := New(440, 0.5, rate)

	first := make([]float32, 10*2)
	s.Fill(first, 10, 2)
	emitted := append([]float32(nil), first...)
	phase := s.Phase()

	rate.Store(48000)
	s.Fill(make([]float32, 10*2), 10, 2)

	expected := phase
	for i := 0; i < 10; i++ {
		expected += 2 * math.Pi * 440 / 48000
		if expected >= 2*math.Pi {
			expected -= 2 * math.Pi
		}
	}
	if math.Abs(s.Phase()-expected) > 1e-12 {
		t.Errorf("expected phase %v at new rate, got %v", expected, s.Phase())
	}
	for i := range emitted {
		if first[i] != emitted[i] {
			t.Errorf("sample %d of earlier call changed", i)
		}
	}
}

// The oscillator trusts the rate cell. A zero rate yields a non-finite
// phase; range checks live at the host boundary.
func TestSineZeroSampleRateIsUnguarded(t *testing.T) {
	s := New(440, 0.5, audio.NewSampleRate(0))
	s.Fill(make([]float32, 4), 2, 2)

	if p := s.Phase(); !math.IsNaN(p) && !math.IsInf(p, 0) {
		t.Errorf("expected non-finite phase with zero rate, got %v", p)
	}
}

func TestSineFillDoesNotAllocate(t *testing.T) {
	s := New(440, 0.5, audio.NewSampleRate(48000))
	buf := make([]float32, 512*2)
	gen := s.Generator()

	allocs := testing.AllocsPerRun(100, func() {
		gen(buf, 512, 2)
	})
	if allocs != 0 {
		t.Errorf("expected 0 allocations per fill, got %v", allocs)
	}
}

func TestSineConcurrentRateUpdates(t *testing.T) {
	rate := audio.NewSampleRate(44100)
	s := New(440, 0.5, rate)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				rate.Store(48000)
			} else {
				rate.Store(44100)
			}
		}
	}()

	buf := make([]float32, 64*2)
	for i := 0; i < 1000; i++ {
		s.Fill(buf, 64, 2)
	}
	<-done

	if p := s.Phase(); p < 0 || p >= 2*math.Pi {
		t.Errorf("phase %v left [0, 2π)", p)
	}
}
