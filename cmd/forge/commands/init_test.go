package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyluth/forge/internal/pool"
	"github.com/dyluth/forge/internal/scaffold"
)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		setupFunc func(t *testing.T, root string)
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "successful init in empty root",
			args:      []string{"init"},
			setupFunc: func(t *testing.T, root string) {},
			wantErr:   false,
		},
		{
			name: "fails when already initialized",
			args: []string{"init"},
			setupFunc: func(t *testing.T, root string) {
				if err := scaffold.Initialize(root, false); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  "benchmark root already initialized",
		},
		{
			name: "force flag allows reinitialization",
			args: []string{"init", "--force"},
			setupFunc: func(t *testing.T, root string) {
				if err := scaffold.Initialize(root, false); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setupFunc(t, root)

			err := execute(append(tt.args, "--root", root)...)

			if (err != nil) != tt.wantErr {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Execute() error = %v, should contain %v", err.Error(), tt.errMsg)
				}
				return
			}

			expectedFiles := []string{
				filepath.Join(pool.ShardsDir, "base", "settings.json"),
				filepath.Join(pool.TasksDir, "example-task", "run.sh"),
				filepath.Join(pool.TasksDir, "example-task", "prompt.md"),
				filepath.Join(pool.EvalsDir, "smoke", "run.sh"),
				filepath.Join(pool.ExperimentsDir, "example.yml"),
			}
			for _, file := range expectedFiles {
				if _, err := os.Stat(filepath.Join(root, file)); err != nil {
					t.Errorf("Expected file %s to exist, but got error: %v", file, err)
				}
			}

			info, err := os.Stat(filepath.Join(root, pool.TasksDir, "example-task", "run.sh"))
			if err != nil {
				t.Errorf("Failed to stat run.sh: %v", err)
			} else if info.Mode()&0111 == 0 {
				t.Errorf("run.sh should be executable, but mode is %v", info.Mode())
			}
		})
	}
}

// execute resets the package level flag state, then runs the root command
// with the given arguments. Cobra keeps flag values between Execute calls
// inside one test binary, so every case starts from a clean slate.
func execute(args ...string) error {
	rootDir = "."
	forceInit = false
	runVariant = ""
	planVariant = ""
	planJSON = false
	listJSON = false

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// captureStdout runs fn with os.Stdout redirected into a pipe and returns
// everything it wrote. Colored printer output bypasses this; the commands
// under test print their tables and JSON with plain fmt.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// initExampleRoot creates a benchmark root holding the scaffold example.
func initExampleRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := scaffold.Initialize(root, false); err != nil {
		t.Fatal(err)
	}
	return root
}
