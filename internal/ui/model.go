// ABOUTME: Bubbletea model for the tone player TUI
// ABOUTME: Shows backend, signal parameters and generator statistics
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model represents the TUI state
type Model struct {
	// Stream
	backend    string
	sessionID  string
	running    bool
	sampleRate float64
	frequency  float64
	amplitude  float64

	// Stats
	calls  uint64
	frames uint64

	// Host bridge
	bridgeEnabled   bool
	bridgeConnected bool
	fillsServed     uint64

	lastErr   string
	startTime time.Time
	quitting  bool
	control   *Control

	// Dimensions
	width  int
	height int
}

type tickMsg time.Time

// StatusMsg updates TUI state. Zero fields leave the current value alone.
type StatusMsg struct {
	Backend         string
	SessionID       string
	Running         *bool
	SampleRate      float64
	Frequency       float64
	Amplitude       float64
	Calls           uint64
	Frames          uint64
	BridgeEnabled   *bool
	BridgeConnected *bool
	FillsServed     uint64
	Err             string
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		startTime: time.Now(),
		control:   ctrl,
	}
}

// Init starts the uptime ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "enter", "ctrl+c":
		m.quitting = true
		if m.control != nil {
			select {
			case m.control.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Backend != "" {
		m.backend = msg.Backend
	}
	if msg.SessionID != "" {
		m.sessionID = msg.SessionID
	}
	if msg.Running != nil {
		m.running = *msg.Running
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
	}
	if msg.Frequency != 0 {
		m.frequency = msg.Frequency
		m.amplitude = msg.Amplitude
	}
	if msg.Calls != 0 {
		m.calls = msg.Calls
		m.frames = msg.Frames
	}
	if msg.BridgeEnabled != nil {
		m.bridgeEnabled = *msg.BridgeEnabled
	}
	if msg.BridgeConnected != nil {
		m.bridgeConnected = *msg.BridgeConnected
	}
	if msg.FillsServed != 0 {
		m.fillsServed = msg.FillsServed
	}
	if msg.Err != "" {
		m.lastErr = msg.Err
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping tone...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	errStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("Resonate Tone"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(headerStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	state := "Stopped"
	if m.running {
		state = "Playing"
	}
	row("Backend:   ", fmt.Sprintf("%s (%s)", orDash(m.backend), state))
	row("Session:   ", orDash(truncate(m.sessionID, 36)))
	row("Signal:    ", fmt.Sprintf("%.1f Hz sine at %.0f Hz", m.frequency, m.sampleRate))
	row("Amplitude: ", fmt.Sprintf("[%s] %.2f", renderBar(int(m.amplitude*100), 100, 10), m.amplitude))
	row("Callbacks: ", fmt.Sprintf("%d (%d frames)", m.calls, m.frames))

	if m.bridgeEnabled {
		host := "waiting for host"
		if m.bridgeConnected {
			host = "host connected"
		}
		row("Bridge:    ", fmt.Sprintf("%s (%d fills served)", host, m.fillsServed))
	}

	uptime := time.Since(m.startTime).Round(time.Second)
	row("Uptime:    ", uptime.String())

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("Error: " + m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press 'q', Enter or Ctrl+C to quit"))

	return b.String()
}

// Utility functions
func renderBar(value, max, width int) string {
	if value > max {
		value = max
	}
	if value < 0 {
		value = 0
	}
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
