package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or all problems joined with errors.Join.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Mode != ModeDetached && cfg.Mode != ModeBlocking {
		errs = append(errs, ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("must be %q or %q (got %q)", ModeDetached, ModeBlocking, cfg.Mode),
		})
	}

	// The blocking prompt needs a visible dashboard to acknowledge.
	if cfg.HideWindow && cfg.Blocking() {
		errs = append(errs, ValidationError{
			Field:   "hide_window",
			Message: "only applies to detached mode",
		})
	}

	// A detached dashboard outlives the launcher, so nobody reads its output.
	if cfg.LogChildOutput && !cfg.Blocking() {
		errs = append(errs, ValidationError{
			Field:   "log_child_output",
			Message: "requires -mode blocking",
		})
	}

	if (cfg.PromptTitle != "" || cfg.PromptMessage != "") && !cfg.Blocking() {
		errs = append(errs, ValidationError{
			Field:   "prompt",
			Message: "-prompt-title and -prompt-message require -mode blocking",
		})
	}

	if cfg.InstallDir != "" && strings.TrimSpace(cfg.InstallDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "install_dir",
			Message: "must not be blank",
		})
	}

	// node_exporter's textfile collector only reads *.prom files.
	if cfg.MetricsTextfile != "" && filepath.Ext(cfg.MetricsTextfile) != ".prom" {
		errs = append(errs, ValidationError{
			Field:   "metrics_textfile",
			Message: fmt.Sprintf("must end in .prom (got %q)", cfg.MetricsTextfile),
		})
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		errs = append(errs, ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("must be \"json\" or \"text\" (got %q)", cfg.LogFormat),
		})
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error (got %q)", cfg.LogLevel),
		})
	}

	if cfg.PrintCmd && cfg.Check {
		errs = append(errs, ValidationError{
			Field:   "print_cmd",
			Message: "cannot be combined with -check",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
