// ABOUTME: Oscillator package for tone generation
// ABOUTME: Provides a continuous-phase sine generator for audio streams
// Package osc provides signal generators that satisfy audio.Generator.
//
// Sine keeps a running phase accumulator so consecutive fills of any size
// join without discontinuity. The sample rate is read from a shared
// audio.SampleRate on every frame.
//
// Example:
//
//	rate := audio.NewSampleRate(44100)
//	sine := osc.New(osc.DefaultFrequency, osc.DefaultAmplitude, rate)
//	err := stream.Start(rate.Load(), sine.Generator())
package osc
