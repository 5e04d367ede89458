//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using a PortAudio float32 callback stream
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	gate   callbackGate
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Start opens the default output device as interleaved float32 stereo
func (p *PortAudio) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		return audio.ErrAlreadyStarted
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: failed to initialize portaudio: %v", audio.ErrBackendUnavailable, err)
	}

	p.gate.open(gen)

	stream, err := portaudio.OpenDefaultStream(0, audio.StereoChannels, sampleRate,
		portaudio.FramesPerBufferUnspecified, p.process)
	if err != nil {
		p.gate.close()
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		p.gate.close()
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	log.Printf("Audio output initialized: %.0fHz, %d channels, F32 (portaudio)", sampleRate, audio.StereoChannels)

	return nil
}

// process runs on PortAudio's callback thread
func (p *PortAudio) process(out []float32) {
	p.gate.invoke(out, len(out)/audio.StereoChannels)
}

// Stop stops and closes the stream, then terminates PortAudio
func (p *PortAudio) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return
	}

	p.gate.close()

	if err := p.stream.Stop(); err != nil {
		log.Printf("Warning: portaudio stream stop error: %v", err)
	}
	if err := p.stream.Close(); err != nil {
		log.Printf("Warning: portaudio stream close error: %v", err)
	}
	p.stream = nil

	if err := portaudio.Terminate(); err != nil {
		log.Printf("Warning: portaudio terminate error: %v", err)
	}

	log.Printf("Audio output stopped (portaudio)")
}
