package process

import "path/filepath"

// Layout names the files the launcher expects under its install directory.
type Layout struct {
	// EnvDir is the Python virtual environment folder.
	EnvDir string

	// ScriptsDir holds the interpreter inside EnvDir.
	ScriptsDir string

	// Interpreter is the interpreter executable name.
	Interpreter string

	// Runner bootstraps the dashboard script.
	Runner string

	// Target is the dashboard script itself.
	Target string
}

// DefaultLayout returns the layout shipped with the dashboard bundle.
func DefaultLayout() Layout {
	return Layout{
		EnvDir:      "env",
		ScriptsDir:  "Scripts",
		Interpreter: "python.exe",
		Runner:      "streamlit_runner.py",
		Target:      "dashboard.py",
	}
}

// InterpreterPath returns installDir/EnvDir/ScriptsDir/Interpreter.
func (l Layout) InterpreterPath(installDir string) string {
	return filepath.Join(installDir, l.EnvDir, l.ScriptsDir, l.Interpreter)
}

// RunnerPath returns installDir/Runner.
func (l Layout) RunnerPath(installDir string) string {
	return filepath.Join(installDir, l.Runner)
}

// TargetPath returns installDir/Target.
func (l Layout) TargetPath(installDir string) string {
	return filepath.Join(installDir, l.Target)
}
