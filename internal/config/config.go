// Package config provides configuration management for esapi-dashboard-launcher.
package config

// Mode names accepted by -mode.
const (
	ModeDetached = "detached"
	ModeBlocking = "blocking"
)

// Config holds all configuration options for one launcher invocation.
type Config struct {
	// Host context. A nil identifier is absent and encodes as "".
	PlanID      *string `json:"plan_id"`
	CourseID    *string `json:"course_id"`
	PatientID   *string `json:"patient_id"`
	ContextFile string  `json:"context_file"` // "-" = stdin

	// Launch
	Mode       string `json:"mode"`        // detached, blocking
	InstallDir string `json:"install_dir"` // "" = executable's directory
	HideWindow bool   `json:"hide_window"`

	// Acknowledgment prompt (blocking only). "" keeps the built-in text.
	PromptTitle   string `json:"prompt_title"`
	PromptMessage string `json:"prompt_message"`

	// Observability
	LogChildOutput  bool   `json:"log_child_output"`
	MetricsTextfile string `json:"metrics_textfile"`
	LogFormat       string `json:"log_format"` // json, text
	LogLevel        string `json:"log_level"`
	LogFile         string `json:"log_file"`
	Verbose         bool   `json:"verbose"`

	// Diagnostic modes
	PrintCmd bool `json:"print_cmd"`
	Check    bool `json:"check"`
	Version  bool `json:"version"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:      ModeDetached,
		LogFormat: "json",
		LogLevel:  "info",
	}
}

// Blocking reports whether the dashboard is held open by the acknowledgment prompt.
func (c *Config) Blocking() bool {
	return c.Mode == ModeBlocking
}

// HasOverrides reports whether any identifier was given on the command line.
func (c *Config) HasOverrides() bool {
	return c.PlanID != nil || c.CourseID != nil || c.PatientID != nil
}
