// ABOUTME: Backend selection for audio output
// ABOUTME: Maps configured backend names onto the closed set of Stream implementations
package output

import (
	"fmt"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// Backend names accepted by New
const (
	BackendOto       = "oto"
	BackendMalgo     = "malgo"
	BackendPortAudio = "portaudio"
	BackendNull      = "null"
	BackendHost      = "host"
)

// Options carries backend-specific settings
type Options struct {
	// NullPeriod is the tick interval of the null backend
	NullPeriod time.Duration
}

// Backends lists every backend name New accepts
func Backends() []string {
	return []string{BackendOto, BackendMalgo, BackendPortAudio, BackendNull, BackendHost}
}

// New constructs the named backend. The stream is not started.
func New(name string, opts Options) (audio.Stream, error) {
	switch name {
	case BackendOto:
		return NewOto(), nil
	case BackendMalgo:
		return NewMalgo(), nil
	case BackendPortAudio:
		return NewPortAudio(), nil
	case BackendNull:
		return NewNull(opts.NullPeriod), nil
	case BackendHost:
		return NewHost(), nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %q (supported: %v)", name, Backends())
	}
}
