package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/host"
)

// LaunchSpec describes one dashboard start. It is rebuilt for every launch.
type LaunchSpec struct {
	// Path is the interpreter executable.
	Path string

	// Runner and Target are the positional script arguments.
	Runner string
	Target string

	// Flags always holds plan-id, course-id and patient-id, in that order.
	Flags []Flag

	// Dir is the working directory of the child.
	Dir string

	// ShowWindow requests a visible console window (Windows only).
	ShowWindow bool

	// Detached starts the child in its own process group so it can outlive
	// the launcher.
	Detached bool
}

// Fragments returns the encoded flag fragments in order.
func (s *LaunchSpec) Fragments() []string {
	out := make([]string, len(s.Flags))
	for i, f := range s.Flags {
		out[i] = f.Fragment()
	}
	return out
}

// Arguments returns the argument string handed to the interpreter:
// runner, a space, target, then the encoded flags.
func (s *LaunchSpec) Arguments() string {
	return s.Runner + " " + s.Target + strings.Join(s.Fragments(), "")
}

// CommandLine returns the full command line including the interpreter.
func (s *LaunchSpec) CommandLine() string {
	return quotePath(s.Path) + " " + s.Arguments()
}

// Argv returns the arguments as separate tokens, as the interpreter sees
// them once the command line has been split.
func (s *LaunchSpec) Argv() []string {
	argv := make([]string, 0, 2+2*len(s.Flags))
	argv = append(argv, s.Runner, s.Target)
	for _, f := range s.Flags {
		argv = append(argv, "--"+f.Name, f.value())
	}
	return argv
}

// Files returns the paths that must exist before the child is started.
func (s *LaunchSpec) Files() []string {
	return []string{s.Path, s.Runner, s.Target}
}

// ErrIsDirectory is returned by Verify when a required file is a directory.
var ErrIsDirectory = errors.New("is a directory")

// Verify checks that the interpreter and both scripts exist.
// The returned error is an *fs.PathError naming the first missing file.
func (s *LaunchSpec) Verify() error {
	for _, p := range s.Files() {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return &os.PathError{Op: "stat", Path: p, Err: ErrIsDirectory}
		}
	}
	return nil
}

// quotePath wraps p in double quotes when it contains blanks.
func quotePath(p string) string {
	if strings.ContainsAny(p, " \t") {
		return "\"" + p + "\""
	}
	return p
}

// DashboardConfig holds configuration for dashboard process execution.
type DashboardConfig struct {
	// InstallDir is the directory the launcher is installed in.
	InstallDir string

	// Layout names the interpreter and scripts under InstallDir.
	Layout Layout

	// ShowWindow requests a visible console window for the child.
	ShowWindow bool

	// Detached lets the child outlive the launcher.
	Detached bool
}

// DefaultDashboardConfig returns a DashboardConfig with the default layout.
func DefaultDashboardConfig(installDir string) *DashboardConfig {
	return &DashboardConfig{
		InstallDir: installDir,
		Layout:     DefaultLayout(),
		ShowWindow: true,
		Detached:   true,
	}
}

// DashboardRunner implements Runner for the Python dashboard.
type DashboardRunner struct {
	config *DashboardConfig
}

// NewDashboardRunner creates a new dashboard runner with the given configuration.
func NewDashboardRunner(cfg *DashboardConfig) *DashboardRunner {
	return &DashboardRunner{
		config: cfg,
	}
}

// Name returns "dashboard".
func (r *DashboardRunner) Name() string {
	return "dashboard"
}

// Spec resolves paths under the install directory and encodes the three
// context identifiers.
func (r *DashboardRunner) Spec(hc *host.Context) *LaunchSpec {
	layout := r.config.Layout
	dir := r.config.InstallDir
	interpreter := layout.InterpreterPath(dir)

	return &LaunchSpec{
		Path:   interpreter,
		Runner: layout.RunnerPath(dir),
		Target: layout.TargetPath(dir),
		Flags: []Flag{
			{Name: FlagPlanID, Value: hc.PlanID()},
			{Name: FlagCourseID, Value: hc.CourseID()},
			{Name: FlagPatientID, Value: hc.PatientID()},
		},
		Dir:        filepath.Dir(interpreter),
		ShowWindow: r.config.ShowWindow,
		Detached:   r.config.Detached,
	}
}

// BuildCommand creates an exec.Cmd for spec with platform process attributes.
// No context is attached: a detached dashboard must survive the launcher.
func (r *DashboardRunner) BuildCommand(spec *LaunchSpec) (*exec.Cmd, error) {
	if spec == nil {
		return nil, errors.New("nil launch spec")
	}
	if spec.Path == "" {
		return nil, fmt.Errorf("%s: empty interpreter path", r.Name())
	}

	cmd := exec.Command(spec.Path, spec.Argv()...)
	cmd.Dir = spec.Dir
	applySysProcAttr(cmd, spec)
	return cmd, nil
}

// Config returns the dashboard configuration.
func (r *DashboardRunner) Config() *DashboardConfig {
	return r.config
}

// CommandString returns the command that would be executed for hc (for debugging).
func (r *DashboardRunner) CommandString(hc *host.Context) string {
	return r.Spec(hc).CommandLine()
}
