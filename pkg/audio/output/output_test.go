// ABOUTME: Audio output interface tests
// ABOUTME: Verifies backend selection and Stream implementations
package output

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

func TestBackendsImplementStream(t *testing.T) {
	var _ audio.Stream = (*Oto)(nil)
	var _ audio.Stream = (*Malgo)(nil)
	var _ audio.Stream = (*PortAudio)(nil)
	var _ audio.Stream = (*Null)(nil)
	var _ audio.Stream = (*Host)(nil)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
	}{
		{BackendOto, &Oto{}},
		{BackendMalgo, &Malgo{}},
		{BackendPortAudio, &PortAudio{}},
		{BackendNull, &Null{}},
		{BackendHost, &Host{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := New(tt.name, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stream == nil {
				t.Fatal("expected stream to be created")
			}

			if reflect.TypeOf(stream) != reflect.TypeOf(tt.expected) {
				t.Errorf("expected %T, got %T", tt.expected, stream)
			}
		})
	}
}

func TestNewUnknownBackend(t *testing.T) {
	stream, err := New("alsa-direct", Options{})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if stream != nil {
		t.Errorf("expected nil stream, got %T", stream)
	}
}

func TestStopWithoutStart(t *testing.T) {
	streams := []audio.Stream{NewOto(), NewMalgo(), NewPortAudio(), NewNull(0), NewHost()}
	for _, s := range streams {
		// must not panic, twice in a row
		s.Stop()
		s.Stop()
	}
}

func TestStartRejectsInvalidArguments(t *testing.T) {
	gen := func(buf []float32, frames, channels int) {}
	streams := map[string]audio.Stream{
		BackendOto:       NewOto(),
		BackendMalgo:     NewMalgo(),
		BackendPortAudio: NewPortAudio(),
		BackendNull:      NewNull(0),
		BackendHost:      NewHost(),
	}

	for name, s := range streams {
		if err := s.Start(0, gen); !errors.Is(err, audio.ErrInvalidSampleRate) {
			t.Errorf("%s: expected ErrInvalidSampleRate, got %v", name, err)
		}
		if err := s.Start(44100, nil); !errors.Is(err, audio.ErrNilGenerator) {
			t.Errorf("%s: expected ErrNilGenerator, got %v", name, err)
		}
	}
}
