// ABOUTME: Version and product identification
// ABOUTME: Reported in startup logs and the host bridge hello
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.1.0"

const (
	Product      = "Resonate Tone"
	Manufacturer = "Resonate"
)
