package launcher

import (
	"errors"
	"fmt"
)

// ErrDetached is returned when terminating a session whose process was released.
var ErrDetached = errors.New("session is detached")

// LaunchError reports a dashboard that could not be started.
type LaunchError struct {
	// Op is the failing step: "resolve", "build" or "start".
	Op string

	// Path is the file involved, usually the interpreter.
	Path string

	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch dashboard: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
