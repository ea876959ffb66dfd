package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNewLoggerWithWriter_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", "JSON", "", "invalid"} {
		t.Run(format, func(t *testing.T) {
			if NewLoggerWithWriter(&bytes.Buffer{}, format, "info") == nil {
				t.Error("NewLoggerWithWriter returned nil")
			}
		})
	}
}

func TestNewLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "text", "error", true)

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("verbose logger should log debug messages")
	}
	if !strings.Contains(buf.String(), "source=") {
		t.Error("verbose logger should add source location")
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "json", "info")
	logger.Info("dashboard_started", "pid", 42)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if rec["msg"] != "dashboard_started" {
		t.Errorf("msg = %v, want dashboard_started", rec["msg"])
	}
	if rec["pid"] != float64(42) {
		t.Errorf("pid = %v, want 42", rec["pid"])
	}
}

func TestNewLoggerWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "text", "info")
	logger.Info("test message", "key", "value")

	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("Expected key=value in output, got: %s", buf.String())
	}
}

func TestNewLoggerWithWriter_DefaultFormatIsJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLoggerWithWriter(&buf, "invalid", "info")
	logger.Info("test message")

	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("default format should be JSON, got: %s", buf.String())
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{"debug", []string{"debug msg", "info msg", "warn msg"}, nil},
		{"info", []string{"info msg", "warn msg"}, []string{"debug msg"}},
		{"warn", []string{"warn msg"}, []string{"debug msg", "info msg"}},
		{"error", nil, []string{"debug msg", "info msg", "warn msg"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(&buf, "text", tt.level)

			logger.Debug("debug msg")
			logger.Info("info msg")
			logger.Warn("warn msg")

			for _, m := range tt.logged {
				if !strings.Contains(buf.String(), m) {
					t.Errorf("level %s should log %q", tt.level, m)
				}
			}
			for _, m := range tt.dropped {
				if strings.Contains(buf.String(), m) {
					t.Errorf("level %s should drop %q", tt.level, m)
				}
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("Discard returned nil")
	}
	// Must not panic.
	logger.Error("dropped")
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.log")

	for i := 0; i < 2; i++ {
		f, err := OpenLogFile(path)
		if err != nil {
			t.Fatalf("OpenLogFile: %v", err)
		}
		NewLoggerWithWriter(f, "text", "info").Info("line")
		f.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "msg=line"); n != 2 {
		t.Errorf("log file has %d records, want 2 (append mode)", n)
	}

	if _, err := OpenLogFile(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSetDefault(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	var buf bytes.Buffer
	SetDefault(NewLoggerWithWriter(&buf, "text", "info"))

	slog.Info("from default logger")
	if !strings.Contains(buf.String(), "from default logger") {
		t.Error("SetDefault did not set the default logger")
	}
}

// =============================================================================
// OutputHandler tests
// =============================================================================

func TestNewOutputHandler(t *testing.T) {
	h := NewOutputHandler("s-1", Discard(), false)

	if h.sessionID != "s-1" {
		t.Errorf("sessionID = %q, want s-1", h.sessionID)
	}
	if len(h.buffer) != MaxBufferedLines {
		t.Errorf("buffer len = %d, want %d", len(h.buffer), MaxBufferedLines)
	}
}

func TestOutputHandler_HandleLine_Truncation(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	h.HandleLine(strings.Repeat("x", MaxLineLength+10))

	lines := h.RecentLines(1)
	if len(lines) != 1 {
		t.Fatalf("RecentLines(1) = %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "...(truncated)") {
		t.Error("long line should be truncated")
	}
	if len(lines[0]) != MaxLineLength+len("...(truncated)") {
		t.Errorf("truncated len = %d", len(lines[0]))
	}
}

func TestOutputHandler_StripsCarriageReturn(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)
	h.HandleLine("Local URL: http://localhost:8501\r")

	if got := h.RecentLines(1)[0]; got != "Local URL: http://localhost:8501" {
		t.Errorf("line = %q", got)
	}
}

func TestOutputHandler_RecentLines(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	for i := 0; i < MaxBufferedLines+5; i++ {
		h.HandleLine(strings.Repeat("a", i%7+1))
	}
	h.HandleLine("last")

	lines := h.RecentLines(3)
	if len(lines) != 3 {
		t.Fatalf("RecentLines(3) = %d lines", len(lines))
	}
	if lines[2] != "last" {
		t.Errorf("newest line = %q, want last", lines[2])
	}

	if got := len(h.RecentLines(MaxBufferedLines * 2)); got != MaxBufferedLines {
		t.Errorf("RecentLines(over max) = %d, want %d", got, MaxBufferedLines)
	}
}

func TestOutputHandler_RecentLines_Empty(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)
	if lines := h.RecentLines(10); len(lines) != 0 {
		t.Errorf("RecentLines on empty handler = %v", lines)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want slog.Level
	}{
		{"Traceback (most recent call last):", slog.LevelWarn},
		{"ModuleNotFoundError: No module named 'pyesapi'", slog.LevelWarn},
		{"RuntimeError: boom", slog.LevelWarn},
		{"FutureWarning: DataFrameGroupBy.apply operated on the grouping columns", slog.LevelWarn},
		{"  Local URL: http://localhost:8501", slog.LevelInfo},
		{"  Network URL: http://10.0.0.5:8501", slog.LevelInfo},
		{"  You can now view your Streamlit app in your browser.", slog.LevelInfo},
		{"Extracting data...", slog.LevelDebug},
		{"", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := classifyLine(tt.line); got != tt.want {
				t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestOutputHandler_CountErrors(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	h.HandleLine("Traceback (most recent call last):")
	h.HandleLine("ModuleNotFoundError: No module named 'streamlit'")
	h.HandleLine("Traceback (most recent call last):")
	h.HandleLine("Extracting data...")

	counts := h.CountErrors()
	if counts["Traceback"] != 2 {
		t.Errorf("Traceback count = %d, want 2", counts["Traceback"])
	}
	if counts["ModuleNotFoundError"] != 1 {
		t.Errorf("ModuleNotFoundError count = %d, want 1", counts["ModuleNotFoundError"])
	}
	if len(counts) != 2 {
		t.Errorf("counts = %v, want 2 patterns", counts)
	}
}

func TestOutputHandler_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet drops debug lines", false, false},
		{"verbose keeps debug lines", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewOutputHandler("s-9", NewLoggerWithWriter(&buf, "text", "debug"), tt.verbose)

			h.HandleLine("Extracting data...")
			h.HandleLine("Traceback (most recent call last):")

			out := buf.String()
			if got := strings.Contains(out, "Extracting data"); got != tt.wantDebug {
				t.Errorf("debug line logged = %v, want %v", got, tt.wantDebug)
			}
			if !strings.Contains(out, "Traceback") {
				t.Error("warning line should always be logged")
			}
			if !strings.Contains(out, "session_id=s-9") {
				t.Error("records should carry session_id")
			}
		})
	}
}

func TestOutputHandler_HandleReader(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	h.HandleReader(strings.NewReader("one\ntwo\r\nthree"))

	lines := h.RecentLines(3)
	want := []string{"one", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestOutputHandler_HandleReader_LongLine(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	input := "first\n" +
		strings.Repeat("x", MaxLineLength+10) + "\n" +
		"Traceback (most recent call last):\n" +
		"ModuleNotFoundError: No module named 'foo'\n"
	h.HandleReader(strings.NewReader(input))

	lines := h.RecentLines(4)
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4: %q", len(lines), lines)
	}
	if lines[0] != "first" {
		t.Errorf("lines[0] = %q, want first", lines[0])
	}
	if want := strings.Repeat("x", MaxLineLength) + "...(truncated)"; lines[1] != want {
		t.Errorf("long line len = %d, want truncated to %d", len(lines[1]), len(want))
	}
	if lines[2] != "Traceback (most recent call last):" {
		t.Errorf("lines[2] = %q, output after the long line was lost", lines[2])
	}

	counts := h.CountErrors()
	if counts["Traceback"] != 1 {
		t.Errorf("Traceback count = %d, want 1", counts["Traceback"])
	}
	if counts["ModuleNotFoundError"] != 1 {
		t.Errorf("ModuleNotFoundError count = %d, want 1", counts["ModuleNotFoundError"])
	}
}

func TestOutputHandler_HandleReader_LongLastLine(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	h.HandleReader(strings.NewReader("first\n" + strings.Repeat("y", 3*MaxLineLength)))

	lines := h.RecentLines(2)
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[1], "...(truncated)") {
		t.Error("unterminated long line should be truncated")
	}
	if len(lines[1]) != MaxLineLength+len("...(truncated)") {
		t.Errorf("truncated len = %d", len(lines[1]))
	}
}

func TestOutputHandler_Concurrent(t *testing.T) {
	h := NewOutputHandler("s", Discard(), false)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				h.HandleLine("line")
				_ = h.RecentLines(5)
				_ = h.CountErrors()
			}
		}()
	}
	wg.Wait()

	if got := len(h.RecentLines(MaxBufferedLines)); got != MaxBufferedLines {
		t.Errorf("RecentLines = %d, want %d", got, MaxBufferedLines)
	}
}
