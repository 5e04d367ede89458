// ABOUTME: Audio output package for real-time playback backends
// ABOUTME: Provides audio.Stream implementations for native drivers and host runtimes
// Package output provides audio.Stream backends.
//
// Backends that own their callback thread:
//   - Oto: pure Go player pulling from the generator (default)
//   - Malgo: miniaudio device with a float32 data callback
//   - PortAudio: PortAudio default stream (build with -tags portaudio)
//   - Null: ticker-driven, discards output (headless machines, CI)
//
// Host is driven from outside: an external runtime calls Process on its own
// schedule and Stop is a no-op.
//
// Example:
//
//	stream, err := output.New(output.BackendOto, output.Options{})
//	err = stream.Start(48000, sine.Generator())
//	defer stream.Stop()
package output
