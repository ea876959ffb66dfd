//go:build linux

package process

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// AwaitExit blocks until p has exited but leaves it unreaped, so its pid
// cannot be reused until Wait is called. It reports false when the exit
// could not be observed; the caller then relies on Wait alone.
func AwaitExit(p *os.Process) bool {
	if p == nil {
		return false
	}

	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, p.Pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return err == nil
	}
}
