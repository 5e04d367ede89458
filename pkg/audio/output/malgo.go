//go:build !js

// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a float32 data callback on the device thread
package output

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	gate     callbackGate

	// owned by the device thread once started
	scratch []float32
}

// NewMalgo creates a new Malgo output
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Start opens the default playback device as 32-bit float stereo
func (m *Malgo) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return audio.ErrAlreadyStarted
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to initialize malgo context: %v", audio.ErrBackendUnavailable, err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = audio.StereoChannels
	deviceConfig.SampleRate = uint32(math.Round(sampleRate))
	deviceConfig.Alsa.NoMMap = 1

	// 100ms up front so typical periods never reallocate on the device thread
	m.scratch = make([]float32, int(sampleRate/10)*audio.StereoChannels)
	m.gate.open(gen)

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: m.dataCallback,
	})
	if err != nil {
		m.gate.close()
		releaseContext(ctx)
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		m.gate.close()
		device.Uninit()
		releaseContext(ctx)
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	log.Printf("Audio output initialized: %dHz, %d channels, F32 (malgo)",
		deviceConfig.SampleRate, audio.StereoChannels)

	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput, pInput []byte, frameCount uint32) {
	frames := int(frameCount)
	m.scratch = audio.Grow(m.scratch, frames*audio.StereoChannels)
	m.gate.invoke(m.scratch, frames)
	audio.PutFloat32LE(pOutput, m.scratch)
}

// Stop halts the device and releases the malgo context
func (m *Malgo) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return
	}

	m.gate.close()

	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil

	releaseContext(m.malgoCtx)
	m.malgoCtx = nil

	log.Printf("Audio output stopped (malgo)")
}

func releaseContext(ctx *malgo.AllocatedContext) {
	if err := ctx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	ctx.Free()
}
