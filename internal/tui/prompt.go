package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/host"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/launcher"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
)

// ErrNotAcknowledged is returned when the prompt ends without an acknowledgment.
var ErrNotAcknowledged = errors.New("prompt closed without acknowledgment")

// Prompter shows the acknowledgment dialog in the terminal.
// It implements launcher.Prompter.
type Prompter struct {
	title   string
	message string
	input   io.Reader
	output  io.Writer
	alt     bool
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithInput reads keys from r instead of the terminal.
func WithInput(r io.Reader) Option {
	return func(p *Prompter) { p.input = r }
}

// WithOutput renders to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Prompter) { p.output = w }
}

// WithTitle sets the dialog title.
func WithTitle(title string) Option {
	return func(p *Prompter) { p.title = title }
}

// WithMessage sets the dialog message.
func WithMessage(message string) Option {
	return func(p *Prompter) { p.message = message }
}

// WithAltScreen renders the dialog on the alternate screen.
func WithAltScreen() Option {
	return func(p *Prompter) { p.alt = true }
}

// NewPrompter creates a terminal prompter.
func NewPrompter(opts ...Option) *Prompter {
	p := &Prompter{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acknowledge shows the dialog until the user acknowledges it.
func (p *Prompter) Acknowledge(ctx context.Context, s *launcher.Session) error {
	return p.run(ctx, sessionInfo(s), s.Done(), s.ExitCode)
}

// run drives the Bubble Tea program. done, when closed, flips the status
// line to "exited" using exitCode().
func (p *Prompter) run(ctx context.Context, info Info, done <-chan struct{}, exitCode func() int) error {
	model := New(Config{
		Title:   p.title,
		Message: p.message,
		Info:    info,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.input != nil {
		opts = append(opts, tea.WithInput(p.input))
	}
	if p.output != nil {
		opts = append(opts, tea.WithOutput(p.output))
	}
	if p.alt {
		opts = append(opts, tea.WithAltScreen())
	}

	program := tea.NewProgram(model, opts...)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-done:
			program.Send(ChildExitedMsg{ExitCode: exitCode()})
		case <-stop:
		}
	}()

	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("run prompt: %w", err)
	}

	if m, ok := final.(Model); ok && !m.Acknowledged() {
		return ErrNotAcknowledged
	}
	return nil
}

// sessionInfo extracts the dialog fields from a session.
func sessionInfo(s *launcher.Session) Info {
	info := Info{
		PID:       s.PID(),
		SessionID: s.ID,
	}
	if s.Spec == nil {
		return info
	}
	for _, f := range s.Spec.Flags {
		switch f.Name {
		case process.FlagPlanID:
			info.PlanID = host.Value(f.Value)
		case process.FlagCourseID:
			info.CourseID = host.Value(f.Value)
		case process.FlagPatientID:
			info.PatientID = host.Value(f.Value)
		}
	}
	return info
}
