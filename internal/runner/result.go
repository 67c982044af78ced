package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EvalStatus records one evaluator's exit code for one task.
type EvalStatus struct {
	Name string `json:"name"`
	Exit int    `json:"exit"`
}

// TaskStatus records what one task's scripts returned. Exit codes are
// opaque to the harness; -1 marks a script that could not be started.
type TaskStatus struct {
	Task    string       `json:"task"`
	Variant string       `json:"variant,omitempty"`
	Dir     string       `json:"dir"`
	Shards  []string     `json:"shards"`
	Setup   *int         `json:"setup_exit,omitempty"` // nil when the task has no setup.sh
	Run     int          `json:"run_exit"`
	Evals   []EvalStatus `json:"evals,omitempty"`
	Changed bool         `json:"changed"` // tree differs from the baseline snapshot
}

// Result describes one finished run. It is persisted as run.json in the
// run root for later tooling.
type Result struct {
	ID         string       `json:"id"`
	Experiment string       `json:"experiment"`
	Variant    string       `json:"variant,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Tasks      []TaskStatus `json:"tasks"`

	// Root is the absolute run directory. The file inside it does not
	// repeat it.
	Root string `json:"-"`
}

// Failures counts tasks whose entrypoint exited non-zero or never
// started.
func (r *Result) Failures() int {
	failures := 0
	for _, task := range r.Tasks {
		if task.Run != 0 {
			failures++
		}
	}
	return failures
}

func (r *Result) write(root string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return os.WriteFile(filepath.Join(root, MetadataFile), append(data, '\n'), 0644)
}
