// ABOUTME: Audio fundamentals package providing the stream contract and core types
// ABOUTME: Defines Stream, Generator, SampleRate and float32 sample codecs
// Package audio provides the real-time output contract shared by every backend.
//
// A Stream is started with a sample rate and a Generator. The backend then
// calls the Generator whenever it needs more audio, handing it an interleaved
// buffer of frames*channels float32 slots to fill. Channel count is fixed at
// StereoChannels for the lifetime of a stream.
//
// SampleRate is an atomic cell so that a rate published by a host runtime can
// be read by the generator on another thread without tearing.
//
// Example:
//
//	rate := audio.NewSampleRate(48000)
//	sine := osc.New(440, 0.5, rate)
//
//	var stream audio.Stream = output.NewOto()
//	if err := stream.Start(rate.Load(), sine.Generator()); err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Stop()
package audio
