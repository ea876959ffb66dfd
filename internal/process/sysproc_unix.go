//go:build !windows

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// applySysProcAttr puts the child in its own process group. The group id
// equals the child pid, which Kill relies on.
func applySysProcAttr(cmd *exec.Cmd, spec *LaunchSpec) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// Kill force-kills p and the rest of its process group.
// It returns os.ErrProcessDone when nothing was left to kill.
// The group is addressed by pid, so p must not have been reaped yet.
func Kill(p *os.Process) error {
	if p == nil {
		return os.ErrProcessDone
	}

	if pgid, err := unix.Getpgid(p.Pid); err == nil && pgid == p.Pid {
		err = unix.Kill(-pgid, unix.SIGKILL)
		if errors.Is(err, unix.ESRCH) {
			return os.ErrProcessDone
		}
		if err == nil {
			return nil
		}
	}

	return p.Kill()
}
