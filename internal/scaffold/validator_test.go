package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyluth/forge/internal/pool"
)

func TestCheckExisting(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T, root string)
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "empty root",
			setupFunc: func(t *testing.T, root string) {},
			wantErr:   false,
		},
		{
			name: "root with only user content",
			setupFunc: func(t *testing.T, root string) {
				for _, dir := range []string{
					filepath.Join(pool.ShardsDir, "my-shard"),
					filepath.Join(pool.TasksDir, "my-task"),
				} {
					if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
						t.Fatal(err)
					}
				}
			},
			wantErr: false,
		},
		{
			name: "existing example declaration only",
			setupFunc: func(t *testing.T, root string) {
				dir := filepath.Join(root, pool.ExperimentsDir)
				if err := os.MkdirAll(dir, 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(dir, "example.yml"), []byte("tasks: [x]"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  "example.yml",
		},
		{
			name: "existing example task only",
			setupFunc: func(t *testing.T, root string) {
				if err := os.MkdirAll(filepath.Join(root, pool.TasksDir, "example-task"), 0755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  filepath.Join(pool.TasksDir, "example-task"),
		},
		{
			name: "full previous initialization",
			setupFunc: func(t *testing.T, root string) {
				if err := Initialize(root, false); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: true,
			errMsg:  "found existing entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setupFunc(t, root)

			err := CheckExisting(root)

			if (err != nil) != tt.wantErr {
				t.Errorf("CheckExisting() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("CheckExisting() error = %v, should contain %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestValidateCreatedFiles(t *testing.T) {
	validDecl := "tasks:\n  - example-task\nconfigs:\n  - base\n"

	writeExample := func(t *testing.T, root, decl, baseSettings, verboseSettings string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Join(root, pool.ExperimentsDir), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, pool.ExperimentsDir, "example.yml"), []byte(decl), 0644); err != nil {
			t.Fatal(err)
		}
		for shard, settings := range map[string]string{
			"base":            baseSettings,
			"verbose-logging": verboseSettings,
		} {
			dir := filepath.Join(root, pool.ShardsDir, shard)
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}

	tests := []struct {
		name      string
		setupFunc func(t *testing.T, root string)
		wantErr   bool
	}{
		{
			name: "valid example",
			setupFunc: func(t *testing.T, root string) {
				writeExample(t, root, validDecl, `{"model": "standard"}`, `{"log_level": "debug"}`)
			},
			wantErr: false,
		},
		{
			name:      "missing declaration",
			setupFunc: func(t *testing.T, root string) {},
			wantErr:   true,
		},
		{
			name: "declaration is not valid YAML",
			setupFunc: func(t *testing.T, root string) {
				writeExample(t, root, "tasks: [unclosed\n", `{}`, `{}`)
			},
			wantErr: true,
		},
		{
			name: "declaration with no tasks",
			setupFunc: func(t *testing.T, root string) {
				writeExample(t, root, "configs:\n  - base\n", `{}`, `{}`)
			},
			wantErr: true,
		},
		{
			name: "shard settings are not a JSON object",
			setupFunc: func(t *testing.T, root string) {
				writeExample(t, root, validDecl, `["not", "an", "object"]`, `{}`)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setupFunc(t, root)

			err := validateCreatedFiles(root)

			if (err != nil) != tt.wantErr {
				t.Errorf("validateCreatedFiles() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
