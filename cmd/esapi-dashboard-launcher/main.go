// Package main provides the esapi-dashboard-launcher CLI entry point.
//
// esapi-dashboard-launcher is invoked by the treatment-planning host with the
// identifiers of the open plan, course and patient. It starts the Python
// dashboard installed next to it, either detached or held open behind an
// acknowledgment prompt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/config"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/host"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/launcher"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/logging"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/metrics"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/preflight"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/tui"
)

const name = "esapi-dashboard-launcher"

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/esapi-dashboard-launcher
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Parse command-line flags
	cfg, err := config.ParseFlags(name, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	if cfg.Version {
		fmt.Fprintf(stdout, "%s %s\n", name, version)
		return 0
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	logging.SetDefault(logger)

	hc, err := resolveContext(cfg)
	if err != nil {
		logger.Error("context_failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	installDir, err := resolveInstallDir(cfg.InstallDir)
	if err != nil {
		logger.Error("install_dir_failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	dashCfg := process.DefaultDashboardConfig(installDir)
	dashCfg.ShowWindow = !cfg.HideWindow
	runner := process.NewDashboardRunner(dashCfg)

	// Handle -print-cmd mode
	if cfg.PrintCmd {
		printCommand(stdout, runner, hc)
		return 0
	}

	// Handle -check mode
	if cfg.Check {
		result := preflight.RunAll(ctx, installDir, runner.Spec(hc), process.DefaultProbeTimeout)
		preflight.PrintResults(stdout, result)
		if !result.Passed {
			return 1
		}
		return 0
	}

	mode, err := launcher.ParseMode(cfg.Mode)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	collector := metrics.NewCollector(version)
	defer writeMetrics(cfg.MetricsTextfile, collector, logger)

	l, err := launcher.New(launcher.Config{
		Mode:          mode,
		Runner:        runner,
		Prompter:      newPrompter(cfg),
		Logger:        logger,
		Metrics:       collector,
		CaptureOutput: cfg.LogChildOutput,
		Verbose:       cfg.Verbose,
	})
	if err != nil {
		logger.Error("launcher_failed", "error", err)
		return 1
	}

	logger.Debug("launching",
		"version", version,
		"mode", mode,
		"install_dir", installDir,
		"plan_id", host.Value(hc.PlanID()),
		"course_id", host.Value(hc.CourseID()),
		"patient_id", host.Value(hc.PatientID()),
	)

	session, err := l.Launch(ctx, hc)
	if err != nil {
		var le *launcher.LaunchError
		if errors.As(err, &le) {
			logger.Error("launch_failed", "op", le.Op, "path", le.Path, "error", le.Err)
		} else {
			logger.Error("launch_failed", "error", err)
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Debug("launcher_done",
		"session_id", session.ID,
		"state", session.State().String(),
	)
	return 0
}

// newLogger builds the process logger. The blocking prompt owns the terminal,
// so without -log-file only errors reach stderr in that mode.
func newLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}

	if cfg.LogFile != "" {
		f, err := logging.OpenLogFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		return logging.NewLoggerWithWriter(f, cfg.LogFormat, level), func() { f.Close() }, nil
	}

	if cfg.Blocking() {
		level = "error"
	}
	return logging.NewLoggerWithWriter(stderr, cfg.LogFormat, level), func() {}, nil
}

// resolveContext loads the host context file, if any, and applies the
// identifiers given on the command line on top of it.
func resolveContext(cfg *config.Config) (*host.Context, error) {
	hc := host.New(nil, nil, nil)
	if cfg.ContextFile != "" {
		loaded, err := host.LoadFile(cfg.ContextFile)
		if err != nil {
			return nil, err
		}
		hc = loaded
	}
	if !cfg.HasOverrides() {
		return hc, nil
	}
	return hc.Override(cfg.PlanID, cfg.CourseID, cfg.PatientID), nil
}

// newPrompter builds the full-screen acknowledgment dialog.
func newPrompter(cfg *config.Config) *tui.Prompter {
	opts := []tui.Option{tui.WithAltScreen()}
	if cfg.PromptTitle != "" {
		opts = append(opts, tui.WithTitle(cfg.PromptTitle))
	}
	if cfg.PromptMessage != "" {
		opts = append(opts, tui.WithMessage(cfg.PromptMessage))
	}
	return tui.NewPrompter(opts...)
}

// resolveInstallDir returns dir as an absolute path, defaulting to the
// directory holding the launcher executable.
func resolveInstallDir(dir string) (string, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve install dir: %w", err)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate launcher executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// printCommand prints the dashboard command that would be run.
func printCommand(w io.Writer, runner *process.DashboardRunner, hc *host.Context) {
	fmt.Fprintln(w, "# Dashboard command that would be run:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, runner.CommandString(hc))
}

func writeMetrics(path string, c *metrics.Collector, logger *slog.Logger) {
	if path == "" {
		return
	}
	if err := c.WriteTextfile(path); err != nil {
		logger.Warn("metrics_textfile_failed", "path", path, "error", err)
	}
}
