// Package preflight provides install layout and interpreter checks for -check.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name    string // Name of the check
	Passed  bool   // Whether the check passed
	Warning bool   // True if it's a warning (non-fatal)
	Message string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks against spec, whose paths live under
// installDir. The interpreter probe is bounded by probeTimeout.
func RunAll(ctx context.Context, installDir string, spec *process.LaunchSpec, probeTimeout time.Duration) *Result {
	result := &Result{
		Checks: make([]Check, 0, 5),
		Passed: true,
	}

	add := func(c Check) {
		result.Checks = append(result.Checks, c)
		if !c.Passed {
			result.Passed = false
		}
	}

	add(checkInstallDir(installDir))
	add(checkFile("interpreter", spec.Path))
	add(checkFile("runner", spec.Runner))
	add(checkFile("target", spec.Target))

	// Interpreter version check (warning only)
	add(checkInterpreterVersion(ctx, spec.Path, probeTimeout))

	return result
}

// checkInstallDir verifies the install directory exists.
func checkInstallDir(dir string) Check {
	info, err := os.Stat(dir)
	if err != nil {
		return Check{
			Name:    "install_dir",
			Passed:  false,
			Message: describeStatError(dir, err),
		}
	}
	if !info.IsDir() {
		return Check{
			Name:    "install_dir",
			Passed:  false,
			Message: fmt.Sprintf("%s is not a directory", dir),
		}
	}
	return Check{
		Name:    "install_dir",
		Passed:  true,
		Message: dir,
	}
}

// checkFile verifies path exists and is a regular file.
func checkFile(name, path string) Check {
	info, err := os.Stat(path)
	if err != nil {
		return Check{
			Name:    name,
			Passed:  false,
			Message: describeStatError(path, err),
		}
	}
	if info.IsDir() {
		return Check{
			Name:    name,
			Passed:  false,
			Message: fmt.Sprintf("%s is a directory", path),
		}
	}
	return Check{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("found at %s", path),
	}
}

// checkInterpreterVersion asks the interpreter for its version. A missing or
// silent interpreter is only a warning: checkFile already reports it.
func checkInterpreterVersion(ctx context.Context, path string, timeout time.Duration) Check {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	info, err := process.ProbeInterpreter(ctx, path)
	if err != nil {
		return Check{
			Name:    "interpreter_version",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("unable to query version: %v", err),
		}
	}

	return Check{
		Name:    "interpreter_version",
		Passed:  true,
		Message: fmt.Sprintf("%s %s", info.Name, info.Version),
	}
}

func describeStatError(path string, err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("not found at %s", path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Sprintf("permission denied at %s", path)
	default:
		return err.Error()
	}
}

// PrintResults prints the preflight check results to w.
func PrintResults(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Preflight checks:")
	for _, check := range result.Checks {
		fmt.Fprintln(w, check.String())
		if !check.Passed {
			fmt.Fprintf(w, "    Fix: %s\n", suggestFix(check.Name))
		} else if check.Warning {
			fmt.Fprintf(w, "    Hint: %s\n", suggestFix(check.Name))
		}
	}
	fmt.Fprintln(w)
}

// suggestFix returns a suggestion for fixing a failed check.
func suggestFix(name string) string {
	switch name {
	case "install_dir":
		return "pass -install-dir or run the launcher from the dashboard install directory"
	case "interpreter":
		return "create the environment: python -m venv env && env\\Scripts\\pip install -r requirements.txt"
	case "runner", "target":
		return "reinstall the dashboard scripts next to the env directory"
	case "interpreter_version":
		return "run env\\Scripts\\python.exe --version to see why the interpreter does not start"
	default:
		return "see documentation"
	}
}
