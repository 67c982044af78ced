package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Recorder captures the pristine state of materialized task directories
// in throwaway Git repositories, so post-run diffs against the baseline
// stay possible after scripts have modified the tree.
type Recorder struct{}

// NewRecorder creates a new Git recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Snapshot initialises a repository in dir and commits everything in it
// under the given message. The commit identity is fixed so snapshots do
// not depend on the host's Git configuration.
func (r *Recorder) Snapshot(dir, message string) error {
	steps := []struct {
		name string
		args []string
	}{
		{"init", []string{"init", "--quiet"}},
		{"add", []string{"add", "-A"}},
		{"commit", []string{
			"-c", "user.name=forge",
			"-c", "user.email=forge@localhost",
			"commit", "--quiet", "-m", message,
		}},
	}

	for _, step := range steps {
		cmd := exec.Command("git", step.args...)
		cmd.Dir = dir
		output, err := cmd.CombinedOutput()
		if err != nil {
			// Check if error is because git command not found
			if _, ok := err.(*exec.Error); ok {
				return fmt.Errorf("git not found in PATH")
			}
			return fmt.Errorf("git %s failed: %s", step.name, strings.TrimSpace(string(output)))
		}
	}
	return nil
}

// HasChanges reports whether dir's working tree differs from its last
// snapshot. This includes staged, unstaged, and untracked files.
func (r *Recorder) HasChanges(dir string) (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("failed to check Git status: %w", err)
	}
	return len(strings.TrimSpace(string(output))) != 0, nil
}
