//go:build !js

package app

import "github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"

// DefaultBackend is the backend used when none is configured
const DefaultBackend = output.BackendOto
