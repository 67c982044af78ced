package runner

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// runScript executes script with dir as its working directory, streaming
// output to the harness's own stdout/stderr, and returns the exit code.
// -1 means the process could not be started at all; everything else is
// the script's own exit status, passed through uninterpreted.
func runScript(ctx context.Context, script, dir string) int {
	// exec resolves a relative command path against dir, while callers
	// build script paths relative to the harness's working directory.
	if abs, err := filepath.Abs(script); err == nil {
		script = abs
	}
	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		log.Printf("[WARN] Failed to run %s: %v", script, err)
		return -1
	}
	return 0
}
