//go:build unix

package harvest

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so it survives the hook
// process and its terminal.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
