package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyluth/forge/internal/pool"
	"github.com/dyluth/forge/internal/runner"
)

func TestRunCommand(t *testing.T) {
	root := initExampleRoot(t)

	if err := execute("run", "example.yml", "--root", root); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	runs, err := pool.Layout{Root: root}.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected exactly one run root, got %v", runs)
	}
	if !strings.HasSuffix(runs[0], "_example") {
		t.Errorf("run root %q should carry the declaration stem", runs[0])
	}

	runRoot := filepath.Join(root, pool.ExperimentsDir, runs[0])
	for _, file := range []string{
		runner.MetadataFile,
		"example.yml",
		filepath.Join("tasks", "example-task", runner.EntrypointFile),
		filepath.Join("tasks", "example-task", runner.PromptFile),
		filepath.Join("tasks", "example-task", "INITIAL_FILES"),
		filepath.Join("tasks", "example-task", runner.ProjectName, "settings.json"),
	} {
		if _, err := os.Stat(filepath.Join(runRoot, file)); err != nil {
			t.Errorf("Expected %s in run root, but got error: %v", file, err)
		}
	}
}

func TestRunCommandUnknownExperiment(t *testing.T) {
	root := initExampleRoot(t)

	err := execute("run", "missing.yml", "--root", root)
	if err == nil {
		t.Fatal("Execute() expected error for unknown experiment")
	}
	if !strings.Contains(err.Error(), "experiment 'missing.yml' not found") {
		t.Errorf("Execute() error = %v, should name the missing experiment", err)
	}
}

func TestRunCommandMissingShard(t *testing.T) {
	root := initExampleRoot(t)
	decl := "tasks:\n  - example-task\nconfigs:\n  - ghost\n"
	if err := os.WriteFile(filepath.Join(root, pool.ExperimentsDir, "broken.yml"), []byte(decl), 0644); err != nil {
		t.Fatal(err)
	}

	err := execute("run", "broken.yml", "--root", root)
	if err == nil {
		t.Fatal("Execute() expected error for missing shard")
	}
	if !strings.Contains(err.Error(), "shard 'ghost' not found") {
		t.Errorf("Execute() error = %v, should name the missing shard", err)
	}
}

func TestRunCommandUnknownVariant(t *testing.T) {
	root := initExampleRoot(t)

	err := execute("run", "example.yml", "--variant", "nope", "--root", root)
	if err == nil {
		t.Fatal("Execute() expected error for unknown variant")
	}
	if !strings.Contains(err.Error(), "variant 'nope' not available") {
		t.Errorf("Execute() error = %v, should name the unavailable variant", err)
	}

	runs, listErr := pool.Layout{Root: root}.Runs()
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(runs) != 0 {
		t.Errorf("a failed plan must not leave a run root behind, got %v", runs)
	}
}
