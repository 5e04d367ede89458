// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the tone player status display
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Control carries user requests out of the TUI
type Control struct {
	Quit chan QuitMsg
}

// QuitMsg signals that the user asked to stop playback
type QuitMsg struct{}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Quit: make(chan QuitMsg, 1),
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
