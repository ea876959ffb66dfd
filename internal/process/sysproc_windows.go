//go:build windows

package process

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// applySysProcAttr passes the command line verbatim so the child receives the
// exact quoted flag form, and sets console visibility.
func applySysProcAttr(cmd *exec.Cmd, spec *LaunchSpec) {
	attr := &syscall.SysProcAttr{
		CmdLine:    spec.CommandLine(),
		HideWindow: !spec.ShowWindow,
	}
	if spec.ShowWindow {
		attr.CreationFlags |= windows.CREATE_NEW_CONSOLE
	}
	if spec.Detached {
		attr.CreationFlags |= windows.CREATE_NEW_PROCESS_GROUP
	}
	cmd.SysProcAttr = attr
}

// Kill force-kills p. It returns os.ErrProcessDone when p already exited.
func Kill(p *os.Process) error {
	if p == nil {
		return os.ErrProcessDone
	}
	return p.Kill()
}
