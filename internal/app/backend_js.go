//go:build js

package app

import "github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"

// DefaultBackend is the backend used when none is configured.
// In the browser the page's audio worklet drives generation.
const DefaultBackend = output.BackendHost
