package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds ProbeInterpreter when ctx has no deadline.
const DefaultProbeTimeout = 5 * time.Second

// InterpreterInfo describes a probed interpreter.
type InterpreterInfo struct {
	Path    string
	Name    string // "Python"
	Version string // "3.11.4"
}

// ProbeInterpreter runs "<path> --version" and parses its answer.
func ProbeInterpreter(ctx context.Context, path string) (InterpreterInfo, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, "--version")

	// Python 2 prints the version on stderr, Python 3 on stdout.
	output, err := cmd.CombinedOutput()
	if err != nil {
		return InterpreterInfo{Path: path}, fmt.Errorf("interpreter probe failed: %w", err)
	}

	name, version, err := parseVersion(output)
	if err != nil {
		return InterpreterInfo{Path: path}, err
	}

	return InterpreterInfo{
		Path:    path,
		Name:    name,
		Version: version,
	}, nil
}

// parseVersion extracts name and version from the first non-empty line,
// e.g. "Python 3.11.4".
func parseVersion(output []byte) (name, version string, err error) {
	for _, line := range strings.Split(string(bytes.TrimSpace(output)), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return "", "", fmt.Errorf("unexpected version output %q", line)
		}
		return fields[0], fields[1], nil
	}
	return "", "", errors.New("empty version output")
}
