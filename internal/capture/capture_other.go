//go:build !unix

package capture

import "os/exec"

func setProcAttr(*exec.Cmd) {}
