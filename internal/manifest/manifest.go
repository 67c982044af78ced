// Package manifest records which files a materialized project directory
// held before any external script ran. External tooling later reads the
// manifest as the pre-execution baseline; the harness itself never does.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest written into each task root.
const FileName = "INITIAL_FILES"

// Snapshot renders the manifest text for projectDir: every top-level
// entry's path relative to taskRoot, one per line in lexical order, with
// a trailing newline. An empty project directory yields a single newline.
func Snapshot(taskRoot, projectDir string) (string, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", projectDir, err)
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		rel, err := filepath.Rel(taskRoot, filepath.Join(projectDir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("failed to relativize %s: %w", entry.Name(), err)
		}
		lines = append(lines, rel)
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// Write stores the Snapshot of projectDir as taskRoot's manifest file.
func Write(taskRoot, projectDir string) error {
	text, err := Snapshot(taskRoot, projectDir)
	if err != nil {
		return err
	}
	path := filepath.Join(taskRoot, FileName)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
