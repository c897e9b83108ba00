package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the focus TUI
func (m FocusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var body string
	switch m.phase {
	case phaseTask:
		body = m.renderTaskPrompt()
	case phaseFocus:
		body = m.renderFocusPanel()
	case phaseCountdown:
		body = m.renderCountdownPanel()
	case phaseLocked:
		body = m.renderLockScreen()
	case phaseBreak:
		body = m.renderBreakPanel()
	}

	helpBar := m.renderHelpBar()

	panel := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
}

func (m FocusModel) renderTaskPrompt() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("START A FOCUS SESSION")

	length := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("%d minutes of focus, then the screen locks", m.account.FocusMinutes))

	parts := []string{title, "", length, "", m.taskInput.View()}
	if m.err != nil {
		parts = append(parts, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render(m.err.Error()))
	}
	return strings.Join(parts, "\n")
}

func (m FocusModel) renderFocusPanel() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("FOCUS")

	var elapsed time.Duration
	if m.session != nil {
		elapsed = time.Since(m.session.StartedAt)
	}
	remaining := m.focusDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	clock := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(formatClock(remaining))

	ratio := 0.0
	if m.focusDuration > 0 {
		ratio = float64(elapsed) / float64(m.focusDuration)
		if ratio > 1 {
			ratio = 1
		}
	}

	parts := []string{header, "", clock, "", m.bar.ViewAs(ratio)}

	if m.session != nil && m.session.TaskDescription != "" {
		parts = append(parts, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Render(m.session.TaskDescription))
	}
	if m.notice != "" {
		parts = append(parts, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Render(m.notice))
	}
	return strings.Join(parts, "\n")
}

func (m FocusModel) renderCountdownPanel() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)).
		Bold(true).
		Render("LOCKING SOON")

	count := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)).
		Bold(true).
		Render(fmt.Sprintf("%d", m.countdownLeft))

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render("Wrap up. Press M if you are in a meeting.")

	return strings.Join([]string{header, "", count, "", hint}, "\n")
}

func (m FocusModel) renderLockScreen() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Bold(true).
		Render("██  LOCKED  ██")

	message := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Width(min(m.width-8, 60)).
		Align(lipgloss.Center).
		Render(m.lockMessage)

	instruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render("Walk to a checkpoint and scan it with your phone to unlock.")

	parts := []string{header, "", message, "", instruction}
	if m.pairingHint != "" {
		parts = append(parts, "", lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Render(m.pairingHint))
	}
	return strings.Join(parts, "\n")
}

func (m FocusModel) renderBreakPanel() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)).
		Bold(true).
		Render("UNLOCKED")

	text := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Render(fmt.Sprintf("Nice work. Take your %d-minute break.", m.account.BreakMinutes))

	return strings.Join([]string{header, "", text}, "\n")
}

func (m FocusModel) renderHelpBar() string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Width(m.width).
		Align(lipgloss.Center)

	switch m.phase {
	case phaseTask:
		return style.Render("enter: start • esc: quit")
	case phaseFocus, phaseCountdown:
		return style.Render("s: stop early • m: meeting mode")
	case phaseLocked:
		return style.Render("unlock from your phone")
	default:
		return style.Render("enter: close")
	}
}

func formatClock(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
