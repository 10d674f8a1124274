// Package tui is the terminal host: it plays the AR device (camera, frame
// loop, session entry) and draws the overlays of the showcase.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func Run(opts Options) error {
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
