//go:build unix

package capture

import (
	"os/exec"
	"syscall"
)

// setProcAttr makes the pty the controlling terminal of the new session.
// Ctty is the child's stdin, which xpty points at the pty slave.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}
}
