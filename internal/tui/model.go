package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Messages
// =============================================================================

// ChildExitedMsg reports that the dashboard process stopped on its own.
type ChildExitedMsg struct {
	ExitCode int
}

// =============================================================================
// Model
// =============================================================================

// DefaultTitle and DefaultMessage are shown when Config leaves them empty.
const (
	DefaultTitle   = "Plan Dashboard"
	DefaultMessage = "The dashboard is running. Acknowledge to close it."
)

// Info identifies the session the prompt is gating.
type Info struct {
	PlanID    string
	CourseID  string
	PatientID string
	PID       int
	SessionID string
}

// Config holds prompt configuration.
type Config struct {
	Title   string
	Message string
	Info    Info
}

// Model is the acknowledgment prompt state.
type Model struct {
	title   string
	message string
	info    Info

	keys keyMap
	help help.Model

	exited       bool
	exitCode     int
	acknowledged bool

	width  int
	height int
}

// New creates a prompt model.
func New(cfg Config) Model {
	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}
	message := cfg.Message
	if message == "" {
		message = DefaultMessage
	}

	return Model{
		title:   title,
		message: message,
		info:    cfg.Info,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Acknowledged reports whether the user has acknowledged the prompt.
func (m Model) Acknowledged() bool {
	return m.acknowledged
}

// =============================================================================
// Bubble Tea Interface
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Acknowledge, m.keys.Close) {
			m.acknowledged = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case ChildExitedMsg:
		m.exited = true
		m.exitCode = msg.ExitCode
	}

	return m, nil
}

// View renders the dialog, centered when the terminal size is known.
func (m Model) View() string {
	if m.acknowledged {
		return ""
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		"",
		messageStyle.Render(m.message),
		"",
		renderField("Plan", m.info.PlanID),
		renderField("Course", m.info.CourseID),
		renderField("Patient", m.info.PatientID),
		renderField("PID", pidText(m.info.PID)),
		"",
		renderStatus(m.exited, m.exitCode),
		"",
		m.help.View(m.keys),
	)
	dialog := dialogStyle.Render(body)

	if m.width == 0 || m.height == 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func pidText(pid int) string {
	if pid <= 0 {
		return ""
	}
	return strconv.Itoa(pid)
}
