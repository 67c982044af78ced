package commands

import (
	"fmt"

	"github.com/dyluth/forge/internal/printer"
	"github.com/dyluth/forge/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a benchmark root with a worked example",
	Long: `Initialize a benchmark root: the pool directories plus a worked example
wired through all of them.

Creates:
  • config_forge/base/, config_forge/verbose-logging/ - Example config shards
  • tasks/example-task/ - Example task with run.sh and prompt.md
  • evals/smoke/ - Example evaluator
  • experiments/example.yml - Declaration wiring the example together

Use --force to recreate the example entries. User content next to them
is left alone.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Recreate the example entries left by a previous init")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing example entries (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting(rootDir); err != nil {
			return printer.Error(
				"benchmark root already initialized",
				err.Error(),
				[]string{
					"Recreate the example entries:\n  forge init --force",
					"Point --root at an empty directory",
				},
			)
		}
	}

	if err := scaffold.Initialize(rootDir, forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess()

	return nil
}
