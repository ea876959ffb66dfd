// Package tui provides the terminal acknowledgment prompt shown while a
// blocking dashboard session runs.
//
// The prompt uses Bubble Tea for the application framework, Lipgloss for
// styling and Bubbles for key bindings and the help line.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan

	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
)

// =============================================================================
// Styles
// =============================================================================

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 3)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(colorText)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	statusOK = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	statusWarning = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)
)

// =============================================================================
// Helpers
// =============================================================================

// renderField renders "label  value", showing absent values as "(none)".
func renderField(label, value string) string {
	if value == "" {
		value = "(none)"
	}
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// statusText returns the dashboard status line text without styling.
func statusText(exited bool, exitCode int) string {
	if !exited {
		return "● dashboard running"
	}
	return fmt.Sprintf("○ dashboard exited (code %d)", exitCode)
}

// renderStatus renders the dashboard status line.
func renderStatus(exited bool, exitCode int) string {
	if exited {
		return statusWarning.Render(statusText(exited, exitCode))
	}
	return statusOK.Render(statusText(exited, exitCode))
}
