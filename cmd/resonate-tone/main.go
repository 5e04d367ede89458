// ABOUTME: Entry point for the tone player
// ABOUTME: Loads configuration, starts the sine tone and waits for a quit request
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/app"
	"github.com/Resonate-Protocol/resonate-tone/internal/config"
	"github.com/Resonate-Protocol/resonate-tone/internal/hostbridge"
	"github.com/Resonate-Protocol/resonate-tone/internal/ui"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/audio/output"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
)

var (
	configFile = flag.String("config", "", "Config file path (default: search ./ and ~/.config/resonate-tone)")
	backend    = flag.String("backend", app.DefaultBackend, "Audio backend: oto, malgo, portaudio, null, host")
	sampleRate = flag.Float64("sample-rate", 44100, "Output sample rate in Hz")
	frequency  = flag.Float64("frequency", 440, "Tone frequency in Hz")
	amplitude  = flag.Float64("amplitude", 0.5, "Tone amplitude (0-1)")
	logFile    = flag.String("log-file", "resonate-tone.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	bridge     = flag.Bool("bridge", false, "Serve the host backend over WebSocket (implies -backend host)")
	bridgePort = flag.Int("bridge-port", 8928, "Port for the WebSocket host bridge")
	bridgeName = flag.String("name", "", "Bridge friendly name (default: hostname-resonate-tone)")
	noMDNS     = flag.Bool("no-mdns", false, "Do not advertise the bridge over mDNS")
)

func main() {
	flag.Parse()

	v := viper.New()
	applyFlags(v)

	cfg, err := config.Load(v, *configFile, app.DefaultBackend)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	useTUI := cfg.TUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	log.Printf("%s %s (%s)", version.Product, version.Version, version.Manufacturer)

	toneConfig := app.Config{
		Backend:    cfg.Backend,
		SampleRate: cfg.SampleRate,
		Frequency:  cfg.Frequency,
		Amplitude:  cfg.Amplitude,
		NullPeriod: cfg.NullPeriod(),
	}
	if cfg.Bridge.Enabled {
		toneConfig.Bridge = &hostbridge.Config{
			Port:       cfg.Bridge.Port,
			Name:       bridgeDisplayName(cfg.Bridge.Name),
			EnableMDNS: cfg.Bridge.MDNS,
		}
	}

	tone, err := app.New(toneConfig)
	if err != nil {
		log.Fatalf("Failed to create tone: %v", err)
	}

	// TUI setup
	var tuiProg *tea.Program
	var control *ui.Control

	if useTUI {
		control = ui.NewControl()
		tuiProg, err = ui.Run(control)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
	}

	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	bridgeEnabled := cfg.Bridge.Enabled
	updateTUI(ui.StatusMsg{
		Backend:       cfg.Backend,
		SampleRate:    cfg.SampleRate,
		Frequency:     cfg.Frequency,
		Amplitude:     cfg.Amplitude,
		BridgeEnabled: &bridgeEnabled,
	})

	if err := tone.Start(); err != nil {
		updateTUI(ui.StatusMsg{Err: err.Error()})
		if tuiProg != nil {
			tuiProg.Quit()
			tuiProg.Wait()
		}
		log.Fatalf("Failed to start tone: %v", err)
	}

	if tuiProg != nil {
		go statsUpdateLoop(tone, updateTUI)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if control != nil {
		select {
		case <-control.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		fmt.Println("Press Enter to quit...")
		select {
		case <-waitForEnter(os.Stdin):
			log.Printf("Enter pressed")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	}

	tone.Stop()

	if tuiProg != nil {
		tuiProg.Quit()
		tuiProg.Wait()
	}

	log.Printf("Tone player stopped")
}

// applyFlags copies explicitly set flags into v so they win over file and env values
func applyFlags(v *viper.Viper) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			v.Set("backend", *backend)
		case "sample-rate":
			v.Set("sample_rate", *sampleRate)
		case "frequency":
			v.Set("frequency", *frequency)
		case "amplitude":
			v.Set("amplitude", *amplitude)
		case "log-file":
			v.Set("log_file", *logFile)
		case "no-tui":
			v.Set("tui", !*noTUI)
		case "bridge":
			v.Set("bridge.enabled", *bridge)
			if *bridge {
				v.Set("backend", output.BackendHost)
			}
		case "bridge-port":
			v.Set("bridge.port", *bridgePort)
		case "name":
			v.Set("bridge.name", *bridgeName)
		case "no-mdns":
			v.Set("bridge.mdns", !*noMDNS)
		}
	})
}

func bridgeDisplayName(name string) string {
	if name != "" {
		return name
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-resonate-tone", hostname)
}

// waitForEnter closes the returned channel when a line is read from r.
// A closed or unreadable stdin never triggers it.
func waitForEnter(r io.Reader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		if _, err := bufio.NewReader(r).ReadString('\n'); err == nil {
			close(done)
		}
	}()
	return done
}

// statsUpdateLoop periodically updates the TUI with generator counters
func statsUpdateLoop(tone *app.Tone, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		stats := tone.Stats()
		running := stats.Running
		msg := ui.StatusMsg{
			SessionID:   stats.SessionID,
			Running:     &running,
			SampleRate:  tone.SampleRate().Load(),
			Calls:       stats.Calls,
			Frames:      stats.Frames,
			FillsServed: stats.FillsServed,
		}
		if bridge := tone.Bridge(); bridge != nil {
			connected := bridge.Connected()
			msg.BridgeConnected = &connected
		}
		updateTUI(msg)
		if !running {
			return
		}
	}
}
