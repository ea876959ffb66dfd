// Package launcher starts the dashboard for a host context, either detached
// or blocking on a user acknowledgment before killing it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/host"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/logging"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/metrics"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
)

// outputWaitDelay bounds how long Wait keeps copying dashboard output after
// the process is gone (a grandchild may still hold the pipe).
const outputWaitDelay = 2 * time.Second

// Prompter blocks until the user acknowledges a running blocking session.
type Prompter interface {
	// Acknowledge returns once the user has acknowledged, or with an error
	// if the prompt could not be shown. There is no timeout.
	Acknowledge(ctx context.Context, s *Session) error
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, s *Session) error

// Acknowledge calls f(ctx, s).
func (f PrompterFunc) Acknowledge(ctx context.Context, s *Session) error {
	return f(ctx, s)
}

// Config holds configuration for creating a new Launcher.
type Config struct {
	Mode     Mode
	Runner   process.Runner
	Prompter Prompter // required for ModeBlocking
	Logger   *slog.Logger
	Metrics  *metrics.Collector // optional

	// CaptureOutput logs the dashboard's console output (blocking mode only).
	CaptureOutput bool
	Verbose       bool
}

// Launcher starts dashboards.
type Launcher struct {
	mode          Mode
	runner        process.Runner
	prompter      Prompter
	logger        *slog.Logger
	metrics       *metrics.Collector
	captureOutput bool
	verbose       bool
}

// New creates a Launcher. A nil logger discards log records.
func New(cfg Config) (*Launcher, error) {
	if cfg.Runner == nil {
		return nil, errors.New("launcher: nil runner")
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeBlocking && cfg.Prompter == nil {
		return nil, errors.New("launcher: blocking mode needs a prompter")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Launcher{
		mode:          cfg.Mode,
		runner:        cfg.Runner,
		prompter:      cfg.Prompter,
		logger:        logger,
		metrics:       cfg.Metrics,
		captureOutput: cfg.CaptureOutput,
		verbose:       cfg.Verbose,
	}, nil
}

// Mode returns the configured launch mode.
func (l *Launcher) Mode() Mode {
	return l.mode
}

// Launch starts the dashboard for hc.
//
// In detached mode it returns as soon as the process has started. In
// blocking mode it waits for the prompter, then kills the dashboard, even
// when the prompt itself failed. Start failures are returned as *LaunchError.
func (l *Launcher) Launch(ctx context.Context, hc *host.Context) (*Session, error) {
	spec := l.runner.Spec(hc)
	spec.Detached = l.mode == ModeDetached
	if l.mode == ModeBlocking {
		spec.ShowWindow = true
	}

	s := newSession(l.mode, spec)
	logger := l.logger.With("session_id", s.ID, "mode", string(l.mode))

	if err := spec.Verify(); err != nil {
		s.setState(StateStopped)
		l.metrics.RecordLaunchFailure(metrics.ReasonMissingFile)
		return nil, &LaunchError{Op: "resolve", Path: failedPath(err, spec.Path), Err: err}
	}

	cmd, err := l.runner.BuildCommand(spec)
	if err != nil {
		s.setState(StateStopped)
		l.metrics.RecordLaunchFailure(metrics.ReasonStart)
		return nil, &LaunchError{Op: "build", Path: spec.Path, Err: err}
	}

	var (
		output     *logging.OutputHandler
		outWriter  *io.PipeWriter
		outputDone chan struct{}
	)
	if l.mode == ModeBlocking && l.captureOutput {
		var outReader *io.PipeReader
		outReader, outWriter = io.Pipe()
		cmd.Stdout = outWriter
		cmd.Stderr = outWriter
		cmd.WaitDelay = outputWaitDelay

		output = logging.NewOutputHandler(s.ID, logger, l.verbose)
		outputDone = make(chan struct{})
		go func() {
			defer close(outputDone)
			output.HandleReader(outReader)
		}()
	}

	s.setState(StateStarting)
	logger.Debug("dashboard_starting",
		"runner", l.runner.Name(),
		"interpreter", spec.Path,
		"arguments", spec.Arguments(),
	)

	if err := cmd.Start(); err != nil {
		if outWriter != nil {
			outWriter.Close()
		}
		s.setState(StateStopped)
		l.metrics.RecordLaunchFailure(metrics.ReasonStart)
		return nil, &LaunchError{Op: "start", Path: spec.Path, Err: err}
	}

	s.started(cmd)
	l.metrics.RecordLaunch(string(l.mode))
	logger.Info("dashboard_started",
		"pid", s.PID(),
		"interpreter", spec.Path,
		"arguments", spec.Arguments(),
	)

	if l.mode == ModeDetached {
		if err := s.detach(); err != nil {
			logger.Warn("release_failed", "pid", s.PID(), "error", err)
		}
		return s, nil
	}

	if outWriter != nil {
		go s.wait(outWriter)
	} else {
		go s.wait(nil)
	}

	promptErr := l.prompter.Acknowledge(ctx, s)
	if promptErr != nil {
		l.metrics.RecordPromptError()
		logger.Warn("acknowledgment_failed", "error", promptErr)
	}

	result, termErr := s.terminate()
	l.metrics.RecordTermination(result, s.Uptime())
	logger.Info("dashboard_terminated",
		"pid", s.PID(),
		"result", result,
		"exit_code", s.ExitCode(),
		"uptime", s.Uptime().String(),
	)

	if output != nil && termErr == nil {
		<-outputDone
		if counts := output.CountErrors(); len(counts) > 0 {
			logger.Warn("dashboard_output_errors",
				"counts", counts,
				"recent", output.RecentLines(5),
			)
		}
	}

	if promptErr != nil {
		return s, fmt.Errorf("acknowledgment prompt: %w", promptErr)
	}
	if termErr != nil {
		return s, fmt.Errorf("terminate dashboard: %w", termErr)
	}
	return s, nil
}

// failedPath returns the path named by a *fs.PathError, or fallback.
func failedPath(err error, fallback string) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return fallback
}
