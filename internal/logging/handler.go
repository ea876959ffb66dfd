package logging

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a single output line before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the number of recent dashboard lines kept for the exit summary.
	MaxBufferedLines = 100

	truncatedSuffix = "...(truncated)"
)

// OutputHandler logs the dashboard's console output line by line.
// It keeps the most recent lines in a ring buffer.
type OutputHandler struct {
	sessionID string
	logger    *slog.Logger
	verbose   bool

	buffer []string
	bufIdx int
	mu     sync.Mutex
}

// NewOutputHandler creates an output handler for one launch session.
func NewOutputHandler(sessionID string, logger *slog.Logger, verbose bool) *OutputHandler {
	return &OutputHandler{
		sessionID: sessionID,
		logger:    logger,
		verbose:   verbose,
		buffer:    make([]string, MaxBufferedLines),
	}
}

// HandleReader reads r until EOF, handling each line. Lines longer than
// MaxLineLength are truncated and reading carries on with the next line.
// Run it in its own goroutine.
func (h *OutputHandler) HandleReader(r io.Reader) {
	br := bufio.NewReaderSize(r, MaxLineLength)

	var (
		line      []byte
		truncated bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if len(line) > 0 || truncated {
				h.record(string(line), truncated)
			}
			return
		}

		if room := MaxLineLength - len(line); len(chunk) > room {
			line = append(line, chunk[:room]...)
			truncated = true
		} else {
			line = append(line, chunk...)
		}
		if isPrefix {
			continue
		}

		h.record(string(line), truncated)
		line = line[:0]
		truncated = false
	}
}

// HandleLine processes a single line of dashboard output.
func (h *OutputHandler) HandleLine(line string) {
	line = strings.TrimRight(line, "\r")
	truncated := len(line) > MaxLineLength
	if truncated {
		line = line[:MaxLineLength]
	}
	h.record(line, truncated)
}

func (h *OutputHandler) record(line string, truncated bool) {
	if truncated {
		line += truncatedSuffix
	}

	h.mu.Lock()
	h.buffer[h.bufIdx] = line
	h.bufIdx = (h.bufIdx + 1) % MaxBufferedLines
	h.mu.Unlock()

	h.logLine(line)
}

func (h *OutputHandler) logLine(line string) {
	level := classifyLine(line)

	if !h.verbose && level == slog.LevelDebug {
		return
	}

	h.logger.Log(context.Background(), level, "dashboard_output",
		"session_id", h.sessionID,
		"line", line,
	)
}

// classifyLine picks a log level from the content of a Python/Streamlit line.
func classifyLine(line string) slog.Level {
	lower := strings.ToLower(line)

	if strings.HasPrefix(line, "Traceback") ||
		strings.Contains(lower, "error") ||
		strings.Contains(lower, "exception") {
		return slog.LevelWarn
	}

	if strings.Contains(lower, "warning") ||
		strings.Contains(lower, "deprecat") {
		return slog.LevelWarn
	}

	// Streamlit startup banner, printed once per launch.
	if strings.Contains(lower, "local url:") ||
		strings.Contains(lower, "network url:") ||
		strings.Contains(lower, "you can now view") {
		return slog.LevelInfo
	}

	return slog.LevelDebug
}

// RecentLines returns up to n of the most recent lines, oldest first.
func (h *OutputHandler) RecentLines(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > MaxBufferedLines {
		n = MaxBufferedLines
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.bufIdx - n + i + MaxBufferedLines) % MaxBufferedLines
		if h.buffer[idx] != "" {
			lines = append(lines, h.buffer[idx])
		}
	}

	return lines
}

// ErrorPatterns are output fragments counted for the exit summary.
var ErrorPatterns = []string{
	"Traceback",
	"ModuleNotFoundError",
	"ConnectionRefusedError",
	"Address already in use",
	"PermissionError",
	"error: the following arguments are required",
}

// CountErrors counts occurrences of ErrorPatterns in the buffered lines.
func (h *OutputHandler) CountErrors() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	counts := make(map[string]int)
	for _, line := range h.buffer {
		if line == "" {
			continue
		}
		for _, pattern := range ErrorPatterns {
			if strings.Contains(line, pattern) {
				counts[pattern]++
			}
		}
	}

	return counts
}
