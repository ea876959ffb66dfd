//go:build !linux

package process

import "os"

// AwaitExit is only supported on Linux. Windows holds a process handle, so
// the pid cannot be reused while the launcher owns it.
func AwaitExit(p *os.Process) bool {
	return false
}
