// Package process builds the command line that starts the dashboard and the
// operating-system options it is started with.
package process

import (
	"os/exec"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/host"
)

// Runner creates executable commands for a host context.
// This interface keeps the launcher independent of the install layout.
type Runner interface {
	// Spec resolves the launch specification for the given context.
	Spec(hc *host.Context) *LaunchSpec

	// BuildCommand returns a ready-to-start command for spec.
	// The command is NOT started.
	BuildCommand(spec *LaunchSpec) (*exec.Cmd, error)

	// Name returns a human-readable name for this process type.
	Name() string
}
