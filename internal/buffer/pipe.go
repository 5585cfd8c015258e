package buffer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Shell runs pipe commands.
var Shell = "sh"

// Pipe runs command through the shell with data on its standard input.
// Output is discarded.
func Pipe(ctx context.Context, command, data string) error {
	if command == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, Shell, "-c", command)
	cmd.Stdin = strings.NewReader(data)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("pipe %q: %w: %s", command, err, msg)
		}
		return fmt.Errorf("pipe %q: %w", command, err)
	}
	return nil
}
