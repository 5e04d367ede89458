//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Start always fails without the portaudio build tag
func (p *PortAudio) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}
	return fmt.Errorf("%w: PortAudio support not enabled (build with -tags portaudio)", audio.ErrBackendUnavailable)
}

// Stop does nothing
func (p *PortAudio) Stop() {}
