// ABOUTME: Oto-based audio output implementation
// ABOUTME: Feeds an oto player from a reader that pulls samples from the generator
package output

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library.
// oto allows one context per process, so a stopped Oto can only be
// restarted at the rate it was first opened with.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
	gate       callbackGate
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{}
}

// Start opens (or resumes) the oto context and begins pulling from gen
func (o *Oto) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return audio.ErrAlreadyStarted
	}

	rate := int(sampleRate + 0.5)

	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: audio.StereoChannels,
			Format:       oto.FormatFloat32LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("%w: failed to create oto context: %v", audio.ErrBackendUnavailable, err)
		}
		<-readyChan

		o.otoCtx = ctx
		o.sampleRate = rate
	} else {
		if o.sampleRate != rate {
			return fmt.Errorf("%w: oto context already opened at %dHz, cannot reopen at %dHz",
				audio.ErrBackendUnavailable, o.sampleRate, rate)
		}
		if err := o.otoCtx.Resume(); err != nil {
			return fmt.Errorf("failed to resume oto context: %w", err)
		}
	}

	o.gate.open(gen)

	o.player = o.otoCtx.NewPlayer(&generatorReader{gate: &o.gate})
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, %d channels, F32 (oto)", rate, audio.StereoChannels)

	return nil
}

// Stop closes the player and suspends the context
func (o *Oto) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return
	}

	o.gate.close()

	if err := o.player.Close(); err != nil {
		log.Printf("Warning: oto player close error: %v", err)
	}
	o.player = nil

	if err := o.otoCtx.Suspend(); err != nil {
		log.Printf("Warning: oto context suspend error: %v", err)
	}

	log.Printf("Audio output stopped (oto)")
}

// generatorReader adapts a callbackGate to the io.Reader oto pulls from.
// oto reads from its own goroutine, which becomes the stream's audio thread.
type generatorReader struct {
	gate    *callbackGate
	scratch []float32
}

func (r *generatorReader) Read(p []byte) (int, error) {
	frameBytes := audio.FrameBytes(audio.StereoChannels)
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	r.scratch = audio.Grow(r.scratch, frames*audio.StereoChannels)
	if !r.gate.invoke(r.scratch, frames) {
		return 0, io.EOF
	}
	audio.PutFloat32LE(p, r.scratch)

	return frames * frameBytes, nil
}
