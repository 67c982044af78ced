// Package pool locates the directory pools a benchmark root is made of:
// config shards, tasks, evaluators and experiment declarations.
package pool

import (
	"fmt"
	"os"
	"path/filepath"
)

// Pool directory names under the benchmark root.
const (
	ShardsDir      = "config_forge"
	TasksDir       = "tasks"
	EvalsDir       = "evals"
	ExperimentsDir = "experiments"
)

// Layout resolves named entries inside a benchmark root. The pools are
// read-only inputs; the experiments directory additionally receives the
// timestamped run roots.
type Layout struct {
	Root string
}

// NotFoundError reports a name a declaration or flag referenced that the
// benchmark root's pools do not hold.
type NotFoundError struct {
	Kind string // "shard", "task", "eval" or "experiment"
	Name string
	Pool string // pool directory under the root
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in %s/", e.Kind, e.Name, e.Pool)
}

// Shard returns the directory of the named config shard.
func (l Layout) Shard(name string) (string, error) {
	return l.resolveDir(ShardsDir, "shard", name)
}

// Task returns the directory of the named task.
func (l Layout) Task(name string) (string, error) {
	return l.resolveDir(TasksDir, "task", name)
}

// Eval returns the directory of the named evaluator.
func (l Layout) Eval(name string) (string, error) {
	return l.resolveDir(EvalsDir, "eval", name)
}

func (l Layout) resolveDir(pool, kind, name string) (string, error) {
	dir := filepath.Join(l.Root, pool, name)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Kind: kind, Name: name, Pool: pool}
		}
		return "", fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s %q is not a directory", kind, name)
	}
	return dir, nil
}

// Experiment returns the path of the named declaration file, resolved
// relative to the experiments pool.
func (l Layout) Experiment(name string) (string, error) {
	path := filepath.Join(l.Root, ExperimentsDir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Kind: "experiment", Name: name, Pool: ExperimentsDir}
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("experiment %q is a directory, expected a declaration file", name)
	}
	return path, nil
}

// ExperimentsRoot returns the directory run roots are created under.
func (l Layout) ExperimentsRoot() string {
	return filepath.Join(l.Root, ExperimentsDir)
}

// Shards lists the shard pool's entries in lexical order.
func (l Layout) Shards() ([]string, error) {
	return l.entries(ShardsDir, true)
}

// Tasks lists the task pool's entries in lexical order.
func (l Layout) Tasks() ([]string, error) {
	return l.entries(TasksDir, true)
}

// Evals lists the evaluator pool's entries in lexical order.
func (l Layout) Evals() ([]string, error) {
	return l.entries(EvalsDir, true)
}

// Experiments lists declaration files in the experiments pool. Run roots
// live alongside them as directories and are excluded here.
func (l Layout) Experiments() ([]string, error) {
	return l.entries(ExperimentsDir, false)
}

// Runs lists the run root directories inside the experiments pool.
func (l Layout) Runs() ([]string, error) {
	return l.entries(ExperimentsDir, true)
}

// entries lists one pool's contents, keeping directories or files only.
// A missing pool directory reads as empty.
func (l Layout) entries(pool string, wantDir bool) ([]string, error) {
	dirEntries, err := os.ReadDir(filepath.Join(l.Root, pool))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s/: %w", pool, err)
	}
	var names []string
	for _, entry := range dirEntries {
		if entry.IsDir() == wantDir {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
