package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colinswan/sentinel/internal/models"
)

// RunFocusTUI starts the interactive focus timer for a primary device.
// eventsURL points at the backend's base URL for live unlock events; it
// may be empty when only the shared database is available.
func RunFocusTUI(account *models.Account, device *models.Device, eventsURL string) error {
	model := NewFocusModel(account, device, eventsURL)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := finalModel.(FocusModel); ok && m.err != nil {
		fmt.Printf("Error: %v\n", m.err)
	}

	return nil
}
