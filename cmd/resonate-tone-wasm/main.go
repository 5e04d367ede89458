//go:build js && wasm

// ABOUTME: WebAssembly entry point for browser playback
// ABOUTME: Exports generate_audio_data and set_sample_rate to the page's audio worker
package main

import (
	"log"
	"syscall/js"

	"github.com/Resonate-Protocol/resonate-tone/internal/app"
	"github.com/Resonate-Protocol/resonate-tone/internal/hostbridge"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/osc"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
)

// maxFrames bounds a single request from the worker
const maxFrames = hostbridge.MaxFramesPerRequest

func main() {
	log.Printf("%s %s (wasm)", version.Product, version.Version)

	registry := hostbridge.NewRegistry(audio.NewSampleRate(audio.DefaultSampleRate))

	tone, err := app.New(app.Config{
		Backend:    output.BackendHost,
		SampleRate: audio.DefaultSampleRate,
		Frequency:  osc.DefaultFrequency,
		Amplitude:  osc.DefaultAmplitude,
		Registry:   registry,
	})
	if err != nil {
		log.Fatalf("Failed to create tone: %v", err)
	}
	if err := tone.Start(); err != nil {
		log.Fatalf("Failed to start tone: %v", err)
	}

	samples := make([]float32, maxFrames*audio.StereoChannels)
	payload := make([]byte, len(samples)*audio.BytesPerSample)

	// generate_audio_data(bytes Uint8Array, numFrames) fills bytes with
	// interleaved stereo float32 frames and returns the frame count written
	js.Global().Set("generate_audio_data", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return 0
		}
		dst := args[0]
		frames := args[1].Int()
		if frames <= 0 {
			return 0
		}
		if frames > maxFrames {
			frames = maxFrames
		}
		if capacity := dst.Length() / audio.FrameBytes(audio.StereoChannels); frames > capacity {
			frames = capacity
		}

		n := frames * audio.StereoChannels
		if !registry.Fill(samples[:n], frames) {
			return 0
		}
		out := payload[:n*audio.BytesPerSample]
		audio.PutFloat32LE(out, samples[:n])
		js.CopyBytesToJS(dst, out)
		return frames
	}))

	js.Global().Set("set_sample_rate", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return false
		}
		if err := registry.SetSampleRate(args[0].Float()); err != nil {
			log.Printf("set_sample_rate: %v", err)
			return false
		}
		return true
	}))

	// Exported functions stay callable while main is parked
	select {}
}
