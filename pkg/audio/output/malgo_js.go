//go:build js

// ABOUTME: Malgo stub for js/wasm targets
// ABOUTME: miniaudio needs cgo, so the browser build reports the backend as unavailable
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Malgo output implementation (stub)
type Malgo struct{}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Start always fails on js/wasm
func (m *Malgo) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}
	return fmt.Errorf("%w: malgo is not available on js/wasm", audio.ErrBackendUnavailable)
}

// Stop does nothing
func (m *Malgo) Stop() {}
