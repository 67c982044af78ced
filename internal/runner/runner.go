// Package runner drives a whole experiment run: loading and planning the
// declaration, preflighting pool references, materializing every task
// directory, and only then handing each task to its scripts.
package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/forge/internal/experiment"
	"github.com/dyluth/forge/internal/git"
	"github.com/dyluth/forge/internal/manifest"
	"github.com/dyluth/forge/internal/materialize"
	"github.com/dyluth/forge/internal/pool"
)

// Files with fixed meaning inside a task root.
const (
	EntrypointFile = "run.sh"    // task entrypoint, relocated to the task root
	PromptFile     = "prompt.md" // task prompt, relocated to the task root
	SetupFile      = "setup.sh"  // optional, stays in project/ and runs there
	ProjectName    = "project"   // materialized project tree
	MetadataFile   = "run.json"  // run result, written into the run root
)

// Runner materializes and executes experiments against one benchmark
// root. The zero Layout is unusable; construct with New.
type Runner struct {
	Layout   pool.Layout
	Reporter materialize.Reporter // materialization diagnostics, defaults to the process log
	Git      *git.Recorder        // baseline snapshots, nil disables them
}

// New returns a Runner over the pools at layout's root.
func New(layout pool.Layout) *Runner {
	return &Runner{Layout: layout, Git: git.NewRecorder()}
}

// Run executes the named experiment declaration end to end and returns
// the per-task outcome. The run happens in two strict phases: every
// planned task is fully materialized (shards, task tree, control file
// relocation, manifest, baseline snapshot) before the first external
// script of any task starts. ctx only bounds the script phase; the
// assembly phase has no cancellation points beyond file I/O.
func (r *Runner) Run(ctx context.Context, name, variantFilter string) (*Result, error) {
	declPath, err := r.Layout.Experiment(name)
	if err != nil {
		return nil, err
	}
	decl, err := experiment.Load(declPath)
	if err != nil {
		return nil, err
	}
	planned, err := experiment.Plan(decl, variantFilter)
	if err != nil {
		return nil, err
	}
	if err := r.preflight(planned); err != nil {
		return nil, err
	}

	started := time.Now()
	runName := started.Format("20060102_150405") + "_" + declStem(declPath)
	root := filepath.Join(r.Layout.ExperimentsRoot(), runName)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run root: %w", err)
	}
	if err := copyDeclaration(declPath, root); err != nil {
		return nil, err
	}
	if err := os.Mkdir(filepath.Join(root, pool.TasksDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create task directory: %w", err)
	}

	result := &Result{
		ID:         uuid.New().String(),
		Experiment: name,
		Variant:    variantFilter,
		StartedAt:  started,
		Root:       root,
	}
	log.Printf("[INFO] Starting run %s (%d tasks) as %s", runName, len(planned), result.ID)

	taskRoots := make([]string, len(planned))
	for i, task := range planned {
		taskRoot, err := r.assemble(root, task)
		if err != nil {
			return nil, err
		}
		taskRoots[i] = taskRoot
	}

	for i, task := range planned {
		result.Tasks = append(result.Tasks, r.execute(ctx, taskRoots[i], task, decl.Evals))
	}
	result.FinishedAt = time.Now()

	if err := result.write(root); err != nil {
		log.Printf("[WARN] Failed to write %s: %v", MetadataFile, err)
	}
	return result, nil
}

// assemble materializes one planned task and returns its root directory.
// Nothing in here executes task content.
func (r *Runner) assemble(root string, task experiment.Task) (string, error) {
	taskRoot := filepath.Join(root, task.Dir)
	if err := os.Mkdir(taskRoot, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", taskRoot, err)
	}
	projectDir := filepath.Join(taskRoot, ProjectName)
	if err := os.Mkdir(projectDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", projectDir, err)
	}

	for _, shard := range task.Shards {
		shardDir, err := r.Layout.Shard(shard)
		if err != nil {
			return "", err
		}
		if err := materialize.ApplyTree(shardDir, projectDir, r.reporter()); err != nil {
			return "", fmt.Errorf("shard %q: %w", shard, err)
		}
	}

	taskDir, err := r.Layout.Task(task.Name)
	if err != nil {
		return "", err
	}
	if err := materialize.ApplyTree(taskDir, projectDir, r.reporter()); err != nil {
		return "", fmt.Errorf("task %q: %w", task.Name, err)
	}

	// The control files must exist once the full stack is applied. They
	// move out of project/ so the manifest never lists them.
	for _, controlFile := range []string{EntrypointFile, PromptFile} {
		src := filepath.Join(projectDir, controlFile)
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("task %s: required file %s missing after applying all shards", task.Label(), controlFile)
			}
			return "", fmt.Errorf("failed to stat %s: %w", src, err)
		}
		if err := os.Rename(src, filepath.Join(taskRoot, controlFile)); err != nil {
			return "", fmt.Errorf("failed to relocate %s: %w", controlFile, err)
		}
	}

	if err := manifest.Write(taskRoot, projectDir); err != nil {
		return "", err
	}
	if err := os.Chmod(filepath.Join(taskRoot, EntrypointFile), 0755); err != nil {
		return "", fmt.Errorf("failed to mark %s executable: %w", EntrypointFile, err)
	}

	if r.Git != nil {
		if err := r.Git.Snapshot(taskRoot, "Initial commit"); err != nil {
			log.Printf("[WARN] Failed to record baseline for %s: %v", task.Label(), err)
		}
	}

	log.Printf("[INFO] Materialized %s", task.Label())
	return taskRoot, nil
}

// execute runs one assembled task's scripts: optional setup, the
// entrypoint, then each evaluator. Exit codes are recorded, never
// interpreted.
func (r *Runner) execute(ctx context.Context, taskRoot string, task experiment.Task, evals []string) TaskStatus {
	status := TaskStatus{
		Task:    task.Name,
		Variant: task.Variant,
		Dir:     task.Dir,
		Shards:  task.Shards,
	}
	projectDir := filepath.Join(taskRoot, ProjectName)

	setupScript := filepath.Join(projectDir, SetupFile)
	if _, err := os.Stat(setupScript); err == nil {
		log.Printf("[INFO] Running setup script for task: %s", task.Label())
		if err := os.Chmod(setupScript, 0755); err != nil {
			log.Printf("[WARN] Failed to mark %s executable: %v", SetupFile, err)
		}
		code := runScript(ctx, setupScript, projectDir)
		status.Setup = &code
		if code != 0 {
			log.Printf("[WARN] Setup script exited with code %d", code)
		}
	}

	log.Printf("[INFO] Running task: %s", task.Label())
	status.Run = runScript(ctx, filepath.Join(taskRoot, EntrypointFile), taskRoot)

	for _, eval := range evals {
		evalDir, err := r.Layout.Eval(eval)
		if err != nil {
			log.Printf("[WARN] Skipping eval %q: %v", eval, err)
			status.Evals = append(status.Evals, EvalStatus{Name: eval, Exit: -1})
			continue
		}
		code := runScript(ctx, filepath.Join(evalDir, EntrypointFile), taskRoot)
		status.Evals = append(status.Evals, EvalStatus{Name: eval, Exit: code})
	}

	if r.Git != nil {
		changed, err := r.Git.HasChanges(taskRoot)
		if err != nil {
			log.Printf("[WARN] Failed to diff %s against baseline: %v", task.Label(), err)
		} else {
			status.Changed = changed
		}
	}
	return status
}

// preflight resolves every pool entry the plan references before the run
// root is created, so a bad name aborts while the tree is untouched.
func (r *Runner) preflight(planned []experiment.Task) error {
	seenTask := make(map[string]bool)
	seenShard := make(map[string]bool)
	for _, task := range planned {
		if !seenTask[task.Name] {
			seenTask[task.Name] = true
			if _, err := r.Layout.Task(task.Name); err != nil {
				return err
			}
		}
		for _, shard := range task.Shards {
			if seenShard[shard] {
				continue
			}
			seenShard[shard] = true
			if _, err := r.Layout.Shard(shard); err != nil {
				return err
			}
		}
	}
	return nil
}

func declStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyDeclaration keeps the exact declaration bytes beside the run's
// output for provenance.
func copyDeclaration(declPath, root string) error {
	data, err := os.ReadFile(declPath)
	if err != nil {
		return fmt.Errorf("failed to read experiment: %w", err)
	}
	dst := filepath.Join(root, filepath.Base(declPath))
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to copy experiment declaration: %w", err)
	}
	return nil
}
