// ABOUTME: Tone application orchestration
// ABOUTME: Selects the output backend, wires the oscillator into it and manages its lifetime
package app

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/hostbridge"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/osc"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	"github.com/google/uuid"
)

// ErrInvalidTone is returned for a frequency or amplitude that cannot produce finite samples
var ErrInvalidTone = errors.New("frequency and amplitude must be finite")

// ErrBridgeNeedsHost is returned when the bridge is enabled for a backend that owns its own thread
var ErrBridgeNeedsHost = errors.New("host bridge requires the host backend")

// Config holds tone configuration
type Config struct {
	Backend    string
	SampleRate float64
	Frequency  float64
	Amplitude  float64
	NullPeriod time.Duration

	// Registry is the host boundary the host backend registers with.
	// Its rate cell becomes the shared sample rate. Created when nil.
	Registry *hostbridge.Registry

	// Bridge serves the registry over WebSocket when set
	Bridge *hostbridge.Config
}

// Stats is a snapshot of generator activity
type Stats struct {
	SessionID string
	Running   bool
	Calls     uint64
	Frames    uint64

	// FillsServed counts bridge fill requests answered
	FillsServed uint64
}

// Tone owns one output stream playing one sine oscillator
type Tone struct {
	config   Config
	rate     *audio.SampleRate
	sine     *osc.Sine
	stream   audio.Stream
	registry *hostbridge.Registry
	bridge   *hostbridge.Server

	calls  atomic.Uint64
	frames atomic.Uint64

	mu        sync.Mutex
	running   bool
	sessionID string
	wg        sync.WaitGroup
}

// New creates a tone player. The backend is chosen here, once.
func New(config Config) (*Tone, error) {
	if config.Backend == "" {
		config.Backend = DefaultBackend
	}
	if math.IsNaN(config.Frequency) || math.IsInf(config.Frequency, 0) ||
		math.IsNaN(config.Amplitude) || math.IsInf(config.Amplitude, 0) {
		return nil, fmt.Errorf("%w (frequency: %v, amplitude: %v)", ErrInvalidTone, config.Frequency, config.Amplitude)
	}
	if config.Bridge != nil && config.Backend != output.BackendHost {
		return nil, fmt.Errorf("%w (backend: %s)", ErrBridgeNeedsHost, config.Backend)
	}

	stream, err := output.New(config.Backend, output.Options{NullPeriod: config.NullPeriod})
	if err != nil {
		return nil, err
	}

	registry := config.Registry
	if registry == nil {
		registry = hostbridge.NewRegistry(audio.NewSampleRate(config.SampleRate))
	} else {
		registry.Rate().Store(config.SampleRate)
	}
	rate := registry.Rate()

	return &Tone{
		config:   config,
		rate:     rate,
		sine:     osc.New(config.Frequency, config.Amplitude, rate),
		stream:   stream,
		registry: registry,
	}, nil
}

// Start begins playback
func (t *Tone) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return audio.ErrAlreadyStarted
	}

	sessionID := uuid.New().String()
	if err := t.stream.Start(t.rate.Load(), t.countingGenerator()); err != nil {
		return fmt.Errorf("failed to start %s output: %w", t.config.Backend, err)
	}

	if host, ok := t.stream.(*output.Host); ok {
		t.registry.Register(host)
	}

	if t.config.Bridge != nil {
		bridge := hostbridge.NewServer(*t.config.Bridge, t.registry)
		if err := bridge.Listen(); err != nil {
			t.stream.Stop()
			if host, ok := t.stream.(*output.Host); ok {
				t.registry.Unregister(host)
			}
			return fmt.Errorf("failed to start host bridge: %w", err)
		}

		t.bridge = bridge
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := bridge.Serve(); err != nil {
				log.Printf("Host bridge error: %v", err)
			}
		}()
	}

	t.running = true
	t.sessionID = sessionID

	log.Printf("Tone started: %.1f Hz at amplitude %.2f, %.0f Hz on %s output (session %s)",
		t.sine.Frequency(), t.sine.Amplitude(), t.rate.Load(), t.config.Backend, sessionID)

	return nil
}

// countingGenerator wraps the oscillator with allocation-free counters
func (t *Tone) countingGenerator() audio.Generator {
	gen := t.sine.Generator()
	return func(buf []float32, frames, channels int) {
		gen(buf, frames, channels)
		t.calls.Add(1)
		t.frames.Add(uint64(frames))
	}
}

// Stop ends playback. Safe to call repeatedly.
func (t *Tone) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	if t.bridge != nil {
		t.bridge.Stop()
		t.wg.Wait()
		t.bridge = nil
	}

	t.stream.Stop()

	if host, ok := t.stream.(*output.Host); ok {
		t.registry.Unregister(host)
	}

	t.running = false
	log.Printf("Tone stopped (session %s, %d callbacks)", t.sessionID, t.calls.Load())
}

// Stats returns generator counters
func (t *Tone) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		SessionID: t.sessionID,
		Running:   t.running,
		Calls:     t.calls.Load(),
		Frames:    t.frames.Load(),
	}
	if t.bridge != nil {
		stats.FillsServed = t.bridge.FillsServed()
	}
	return stats
}

// Registry returns the host boundary this tone registers with
func (t *Tone) Registry() *hostbridge.Registry {
	return t.registry
}

// SampleRate returns the shared rate cell
func (t *Tone) SampleRate() *audio.SampleRate {
	return t.rate
}

// Bridge returns the running host bridge, or nil
func (t *Tone) Bridge() *hostbridge.Server {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bridge
}

// Config returns the configuration the tone was built with
func (t *Tone) Config() Config {
	return t.config
}
