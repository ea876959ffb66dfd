package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/config"
	"github.com/randomizedcoder/go-esapi-dashboard-launcher/internal/process"
)

// =============================================================================
// Helpers
// =============================================================================

// installDashboard creates an install directory whose interpreter is a shell
// script that exits immediately.
func installDashboard(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script interpreter")
	}
	dir := t.TempDir()
	l := process.DefaultLayout()

	if err := os.MkdirAll(filepath.Dir(l.InterpreterPath(dir)), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		l.InterpreterPath(dir): "#!/bin/sh\n[ \"$1\" = --version ] && echo 'Python 3.11.4'\nexit 0\n",
		l.RunnerPath(dir):      "# runner\n",
		l.TargetPath(dir):      "# dashboard\n",
	}
	for p, body := range files {
		if err := os.WriteFile(p, []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// =============================================================================
// Tests: flags and diagnostics
// =============================================================================

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runArgs(t, "-version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, name+" "+version) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runArgs(t, "-h")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("usage not printed: %q", stderr)
	}
}

func TestRun_BadFlags(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-clients", "5"}, "Error parsing flags"},
		{"bad mode", []string{"-mode", "modal"}, "Configuration error"},
		{"hidden blocking", []string{"-mode", "blocking", "-hide-window"}, "hide_window"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runArgs(t, tc.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tc.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tc.want)
			}
		})
	}
}

func TestRun_PrintCmd(t *testing.T) {
	dir := filepath.FromSlash("/app")
	code, stdout, _ := runArgs(t, "-install-dir", dir, "-plan-id", "P1", "-course-id", "C1", "-patient-id", "123", "-print-cmd")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	interpreter := filepath.Join(dir, "env", "Scripts", "python.exe")
	if !strings.Contains(stdout, interpreter) {
		t.Errorf("stdout missing interpreter %q:\n%s", interpreter, stdout)
	}
	if !strings.Contains(stdout, `--plan-id "P1" --course-id "C1" --patient-id "123"`) {
		t.Errorf("stdout missing arguments:\n%s", stdout)
	}
}

func TestRun_PrintCmd_AbsentIDs(t *testing.T) {
	code, stdout, _ := runArgs(t, "-install-dir", t.TempDir(), "-patient-id", "123", "-print-cmd")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, `--plan-id "" --course-id "" --patient-id "123"`) {
		t.Errorf("stdout = %s", stdout)
	}
}

func TestRun_PrintCmd_ContextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	doc := `{"PlanSetup":{"Id":"P1","Course":{"Id":"C1"}},"Patient":{"Id":"123"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runArgs(t, "-install-dir", t.TempDir(), "-context", path, "-plan-id", "P2", "-print-cmd")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, `--plan-id "P2" --course-id "C1" --patient-id "123"`) {
		t.Errorf("explicit flag should override the context file:\n%s", stdout)
	}
}

func TestRun_BadContextFile(t *testing.T) {
	code, _, stderr := runArgs(t, "-context", filepath.Join(t.TempDir(), "missing.json"), "-print-cmd")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "host context") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Check(t *testing.T) {
	dir := installDashboard(t)

	code, stdout, _ := runArgs(t, "-install-dir", dir, "-check")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s", code, stdout)
	}
	if !strings.Contains(stdout, "Python 3.11.4") {
		t.Errorf("stdout missing interpreter version:\n%s", stdout)
	}
}

func TestRun_Check_Missing(t *testing.T) {
	code, stdout, _ := runArgs(t, "-install-dir", filepath.Join(t.TempDir(), "missing"), "-check")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "✗") {
		t.Errorf("stdout should report failed checks:\n%s", stdout)
	}
}

// =============================================================================
// Tests: launch
// =============================================================================

func TestRun_Detached(t *testing.T) {
	dir := installDashboard(t)
	textfile := filepath.Join(t.TempDir(), "launcher.prom")

	code, _, stderr := runArgs(t, "-install-dir", dir, "-plan-id", "P1", "-metrics-textfile", textfile, "-log-format", "text")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "msg=dashboard_started") {
		t.Errorf("stderr missing dashboard_started:\n%s", stderr)
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `esapi_dashboard_launcher_launches_total{mode="detached"} 1`) {
		t.Errorf("textfile missing launch counter:\n%s", data)
	}
}

func TestRun_LaunchFailure(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "launcher.prom")

	code, _, stderr := runArgs(t, "-install-dir", filepath.Join(t.TempDir(), "missing"), "-metrics-textfile", textfile, "-log-format", "text")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "msg=launch_failed") {
		t.Errorf("stderr missing launch_failed:\n%s", stderr)
	}

	data, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "esapi_dashboard_launcher_launch_failures_total") {
		t.Errorf("textfile missing failure counter:\n%s", data)
	}
}

// =============================================================================
// Tests: helpers
// =============================================================================

func TestResolveInstallDir(t *testing.T) {
	abs, err := resolveInstallDir("relative")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("resolveInstallDir(relative) = %q, want absolute", abs)
	}

	def, err := resolveInstallDir("")
	if err != nil {
		t.Fatal(err)
	}
	if def == "" {
		t.Error("default install dir should not be empty")
	}
}

func TestNewLogger_BlockingSuppressesInfo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeBlocking
	cfg.LogFormat = "text"

	var buf bytes.Buffer
	logger, closeLog, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closeLog()

	logger.Info("hidden")
	logger.Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info records should be suppressed in blocking mode")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("error records should still be written")
	}
}

func TestNewLogger_File(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeBlocking
	cfg.LogFile = filepath.Join(t.TempDir(), "launcher.log")

	logger, closeLog, err := newLogger(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("to_file")
	closeLog()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to_file") {
		t.Errorf("log file = %q", data)
	}
}

func TestResolveContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")
	doc := `{"PlanSetup":{"Id":"P1","Course":{"Id":"C1"}},"Patient":{"Id":"123"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.ContextFile = path

	hc, err := resolveContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := *hc.CourseID(); got != "C1" {
		t.Errorf("CourseID = %q, want C1", got)
	}

	empty := ""
	cfg.PatientID = &empty
	hc, err = resolveContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := hc.PatientID(); got == nil || *got != "" {
		t.Errorf("explicit empty patient-id should override the file, got %v", got)
	}
	if got := *hc.PlanID(); got != "P1" {
		t.Errorf("PlanID = %q, want P1", got)
	}
}

func TestResolveContext_None(t *testing.T) {
	hc, err := resolveContext(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if hc.PlanID() != nil || hc.CourseID() != nil || hc.PatientID() != nil {
		t.Error("no context file and no flags should leave every id absent")
	}
}

func TestNewPrompter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeBlocking
	cfg.PromptTitle = "Review"

	if newPrompter(cfg) == nil {
		t.Fatal("newPrompter returned nil")
	}
}
