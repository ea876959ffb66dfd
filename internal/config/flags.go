package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// optionalString is a string flag that remembers whether it was set, so an
// unset identifier stays absent rather than becoming "".
type optionalString struct {
	target **string
}

func (o optionalString) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return **o.target
}

func (o optionalString) Set(value string) error {
	*o.target = &value
	return nil
}

// ParseFlags parses command-line arguments (without the program name) and
// returns a Config. -h returns flag.ErrHelp after printing usage.
func ParseFlags(name string, args []string, output io.Writer) (*Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	// Custom usage message
	fs.Usage = func() {
		fmt.Fprintf(output, `%[1]s - open the plan dashboard for the current host context

Usage:
  %[1]s [flags]

Host Context:
`, name)
		printFlagCategory(fs, output, []string{"plan-id", "course-id", "patient-id", "context"})

		fmt.Fprintf(output, "\nLaunch:\n")
		printFlagCategory(fs, output, []string{"mode", "install-dir", "hide-window", "prompt-title", "prompt-message"})

		fmt.Fprintf(output, "\nDiagnostics:\n")
		printFlagCategory(fs, output, []string{"print-cmd", "check", "version"})

		fmt.Fprintf(output, "\nObservability:\n")
		printFlagCategory(fs, output, []string{"log-child-output", "metrics-textfile", "log-format", "log-level", "log-file", "v"})

		fmt.Fprintf(output, `
Examples:
  # Open the dashboard for a plan and return immediately
  %[1]s -plan-id P1 -course-id C1 -patient-id 123

  # Read the host context from a file and wait for acknowledgment
  %[1]s -context context.json -mode blocking

  # Show what would be started
  %[1]s -plan-id P1 -print-cmd

`, name)
	}

	// Host context
	fs.Var(optionalString{&cfg.PlanID}, "plan-id", "Identifier of the open plan (unset = absent)")
	fs.Var(optionalString{&cfg.CourseID}, "course-id", "Identifier of the plan's course (unset = absent)")
	fs.Var(optionalString{&cfg.PatientID}, "patient-id", "Identifier of the open patient (unset = absent)")
	fs.StringVar(&cfg.ContextFile, "context", cfg.ContextFile, `Host context JSON file, "-" for stdin; explicit id flags win`)

	// Launch
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, `Launch mode: "detached" or "blocking"`)
	fs.StringVar(&cfg.InstallDir, "install-dir", cfg.InstallDir, "Dashboard install directory (default: launcher's directory)")
	fs.BoolVar(&cfg.HideWindow, "hide-window", cfg.HideWindow, "Start the dashboard without a console window (detached only)")
	fs.StringVar(&cfg.PromptTitle, "prompt-title", cfg.PromptTitle, "Acknowledgment dialog title (blocking only)")
	fs.StringVar(&cfg.PromptMessage, "prompt-message", cfg.PromptMessage, "Acknowledgment dialog message (blocking only)")

	// Diagnostics
	fs.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the dashboard command line and exit")
	fs.BoolVar(&cfg.Check, "check", cfg.Check, "Check the install layout and interpreter, then exit")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "Print version and exit")

	// Observability
	fs.BoolVar(&cfg.LogChildOutput, "log-child-output", cfg.LogChildOutput, "Log dashboard output lines (blocking only)")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "Write launch metrics to this node_exporter textfile (*.prom)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level: "debug", "info", "warn" or "error"`)
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file instead of stderr")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return cfg, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, w io.Writer, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(w, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(w, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(w)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return ""
	}
	return "string"
}
