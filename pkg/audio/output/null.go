// ABOUTME: Null output backend driven by a ticker goroutine
// ABOUTME: Runs the generator at real-time cadence and discards the samples
package output

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/pkg/audio"
)

// DefaultNullPeriod is the tick interval used when none is configured
const DefaultNullPeriod = 10 * time.Millisecond

// Null plays into nowhere. It owns one goroutine that requests a period's
// worth of frames on every tick.
type Null struct {
	period time.Duration

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewNull creates a null backend ticking every period
func NewNull(period time.Duration) *Null {
	if period <= 0 {
		period = DefaultNullPeriod
	}
	return &Null{period: period}
}

// Start launches the ticker goroutine
func (n *Null) Start(sampleRate float64, gen audio.Generator) error {
	if err := audio.ValidateStart(sampleRate, gen); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stop != nil {
		return audio.ErrAlreadyStarted
	}

	frames := int(math.Round(sampleRate * n.period.Seconds()))
	if frames < 1 {
		frames = 1
	}
	buf := make([]float32, frames*audio.StereoChannels)

	n.stop = make(chan struct{})
	n.wg.Add(1)
	go n.run(n.stop, buf, frames, gen)

	log.Printf("Null output started: %.0fHz, %d frames every %v", sampleRate, frames, n.period)
	return nil
}

func (n *Null) run(stop <-chan struct{}, buf []float32, frames int, gen audio.Generator) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			gen(buf, frames, audio.StereoChannels)
		}
	}
}

// Stop ends the ticker goroutine and waits for it to exit
func (n *Null) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.stop == nil {
		return
	}
	close(n.stop)
	n.wg.Wait()
	n.stop = nil

	log.Printf("Null output stopped")
}
