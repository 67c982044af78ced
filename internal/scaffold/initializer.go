// Package scaffold creates a ready-to-run benchmark root: the four pool
// directories plus a worked example wired through all of them.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/forge/internal/pool"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string // relative to the benchmark root
	Content     []byte
	Permissions os.FileMode
}

// Example entries Initialize creates inside the pools. CheckExisting and
// --force only ever consider these, never user content next to them.
var examplePaths = []string{
	filepath.Join(pool.ShardsDir, "base"),
	filepath.Join(pool.ShardsDir, "verbose-logging"),
	filepath.Join(pool.TasksDir, "example-task"),
	filepath.Join(pool.EvalsDir, "smoke"),
	filepath.Join(pool.ExperimentsDir, "example.yml"),
}

// Initialize creates the benchmark root structure under root.
// If force is true, it first removes the example entries left by a
// previous initialization.
func Initialize(root string, force bool) error {
	if force {
		if err := handleForce(root); err != nil {
			return err
		}
	}

	files, err := templateFiles()
	if err != nil {
		return err
	}

	if err := createDirectories(root); err != nil {
		return err
	}

	if err := writeFiles(root, files); err != nil {
		return err
	}

	return validateCreatedFiles(root)
}

// handleForce removes the example entries if --force was specified
func handleForce(root string) error {
	for _, rel := range examplePaths {
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fmt.Printf("⚠️  Removing existing %s...\n", rel)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", rel, err)
		}
	}
	return nil
}

// templateFiles reads all embedded templates into their target layout
func templateFiles() ([]FileInfo, error) {
	specs := []struct {
		template    string
		path        string
		permissions os.FileMode
	}{
		{"base-settings.json.tmpl", filepath.Join(pool.ShardsDir, "base", "settings.json"), 0644},
		{"verbose-settings.json.tmpl", filepath.Join(pool.ShardsDir, "verbose-logging", "settings.json"), 0644},
		{"task-run.sh.tmpl", filepath.Join(pool.TasksDir, "example-task", "run.sh"), 0755},
		{"task-prompt.md.tmpl", filepath.Join(pool.TasksDir, "example-task", "prompt.md"), 0644},
		{"eval-run.sh.tmpl", filepath.Join(pool.EvalsDir, "smoke", "run.sh"), 0755},
		{"example.yml.tmpl", filepath.Join(pool.ExperimentsDir, "example.yml"), 0644},
	}

	files := make([]FileInfo, 0, len(specs))
	for _, spec := range specs {
		content, err := templatesFS.ReadFile("templates/" + spec.template)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", spec.template, err)
		}
		files = append(files, FileInfo{
			Path:        spec.path,
			Content:     content,
			Permissions: spec.permissions,
		})
	}
	return files, nil
}

// createDirectories creates the pool directories and example entries
func createDirectories(root string) error {
	dirs := []string{
		pool.ShardsDir,
		filepath.Join(pool.ShardsDir, "base"),
		filepath.Join(pool.ShardsDir, "verbose-logging"),
		pool.TasksDir,
		filepath.Join(pool.TasksDir, "example-task"),
		pool.EvalsDir,
		filepath.Join(pool.EvalsDir, "smoke"),
		pool.ExperimentsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// writeFiles writes all template files to disk
func writeFiles(root string, files []FileInfo) error {
	for _, file := range files {
		path := filepath.Join(root, file.Path)
		if err := os.WriteFile(path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	fmt.Println("\n✅ Initialized benchmark root!")
	fmt.Println("\nCreated:")
	for _, rel := range examplePaths {
		fmt.Printf("  ✓ %s\n", rel)
	}
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'forge run example.yml' to try the example experiment")
	fmt.Println("  2. Add your own shards under config_forge/ and tasks under tasks/")
	fmt.Println("  3. Declare experiments as YAML files under experiments/")
}
