package launcher

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/metrics"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
)

// Session is the handle on one launched dashboard.
type Session struct {
	// ID identifies the session in logs.
	ID string

	// Mode is the launch mode the session was started with.
	Mode Mode

	// Spec is the launch specification the dashboard was started from.
	Spec *process.LaunchSpec

	mu        sync.RWMutex
	state     State
	cmd       *exec.Cmd
	pid       int
	startTime time.Time
	endTime   time.Time
	exitCode  int

	// reapMu is held by the waiter while it reaps the dashboard and by
	// terminate while it signals it, so a kill never targets a reaped pid.
	reapMu sync.Mutex
	exited atomic.Bool

	done chan struct{}
}

func newSession(mode Mode, spec *process.LaunchSpec) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Mode:     mode,
		Spec:     spec,
		state:    StateCreated,
		exitCode: -1,
		done:     make(chan struct{}),
	}
}

// State returns the current state of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Running reports whether the session still owns a live dashboard.
func (s *Session) Running() bool {
	return s.State().IsActive()
}

// PID returns the dashboard process id, or 0 before start.
func (s *Session) PID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pid
}

// ExitCode returns the exit code of a reaped dashboard, or -1.
// A dashboard killed by a signal reports 128 + signal number.
func (s *Session) ExitCode() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exitCode
}

// Uptime returns how long the dashboard ran, or has been running so far.
func (s *Session) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	if s.endTime.IsZero() {
		return time.Since(s.startTime)
	}
	return s.endTime.Sub(s.startTime)
}

// Done is closed once a blocking session's dashboard has been reaped.
// It is never closed for detached sessions.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// started records a successfully started command.
func (s *Session) started(cmd *exec.Cmd) {
	s.mu.Lock()
	s.cmd = cmd
	s.pid = cmd.Process.Pid
	s.startTime = time.Now()
	s.state = StateRunning
	s.mu.Unlock()
}

// detach releases the OS handle; the dashboard is no longer tracked.
func (s *Session) detach() error {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.state = StateDetached
	s.mu.Unlock()

	return cmd.Process.Release()
}

// wait reaps the dashboard, records its exit and closes Done.
// out, when set, is closed after the child's output has been copied.
func (s *Session) wait(out io.Closer) {
	cmd := s.cmd

	// Where the exit can be observed without reaping, hold reapMu across the
	// reap so terminate sees either a live pid or a closed Done.
	if process.AwaitExit(cmd.Process) {
		s.exited.Store(true)
		s.reapMu.Lock()
		defer s.reapMu.Unlock()
	}

	err := cmd.Wait()
	if out != nil {
		out.Close()
	}

	s.mu.Lock()
	s.exitCode = exitCode(err)
	s.endTime = time.Now()
	if s.state == StateRunning {
		s.state = StateExited
	}
	close(s.done)
	s.mu.Unlock()
}

// Terminate force-kills the dashboard and waits for it to be reaped.
// A dashboard that already exited is not an error.
func (s *Session) Terminate() error {
	_, err := s.terminate()
	return err
}

// terminate returns the metrics termination result alongside the error.
func (s *Session) terminate() (string, error) {
	s.mu.Lock()
	cmd := s.cmd
	state := s.state
	if state == StateDetached {
		s.mu.Unlock()
		return metrics.ResultError, ErrDetached
	}
	if cmd == nil || state != StateRunning {
		s.mu.Unlock()
		if !state.IsTerminal() && cmd != nil {
			<-s.done
		}
		return metrics.ResultAlreadyExited, nil
	}
	s.state = StateTerminating
	s.mu.Unlock()

	s.reapMu.Lock()
	selfExited := s.exited.Load()
	var err error
	if !selfExited {
		select {
		case <-s.done:
			selfExited = true
		default:
			err = process.Kill(cmd.Process)
		}
	}
	s.reapMu.Unlock()

	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.mu.Lock()
		select {
		case <-s.done:
			s.state = StateExited
		default:
			s.state = StateRunning
		}
		s.mu.Unlock()
		return metrics.ResultError, err
	}

	<-s.done
	if selfExited || err != nil {
		s.setState(StateExited)
		return metrics.ResultAlreadyExited, nil
	}
	s.setState(StateStopped)
	return metrics.ResultKilled, nil
}

// exitCode extracts the exit code from a Wait() error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
		return exitErr.ExitCode()
	}

	// Unknown error, assume exit code 1
	return 1
}
