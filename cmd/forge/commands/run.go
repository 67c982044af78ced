package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dyluth/forge/internal/experiment"
	"github.com/dyluth/forge/internal/pool"
	"github.com/dyluth/forge/internal/printer"
	"github.com/dyluth/forge/internal/runner"
	"github.com/spf13/cobra"
)

var (
	runVariant string
)

var runCmd = &cobra.Command{
	Use:   "run <experiment>",
	Short: "Materialize and execute an experiment",
	Long: `Materialize and execute an experiment declaration from the experiments pool.

The run happens in two strict phases:
  1. Every planned task gets its own directory under a fresh timestamped
     run root: config shards and the task tree are layered into project/,
     structured settings files are deep merged, run.sh and prompt.md move
     up to the task root, and the project file list is recorded.
  2. Only after every task is assembled do the scripts run, task by task:
     optional project/setup.sh, the task's run.sh, then each declared
     evaluator.

Script exit codes are recorded in run.json but never interpreted.

Examples:
  # Run every task in the declaration
  forge run example.yml

  # Run only one variant's expansion
  forge run example.yml --variant fast`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runVariant, "variant", "", "Run only this variant's tasks")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]

	printer.Step("Running experiment '%s'...\n", name)
	result, err := runner.New(layout()).Run(context.Background(), name, runVariant)
	if err != nil {
		return runFailure(name, err)
	}

	printer.Success("Run %s finished: %d task(s) in %s\n", result.ID, len(result.Tasks), result.Root)
	if failures := result.Failures(); failures > 0 {
		printer.Warning("%d task(s) exited non-zero, see %s\n", failures, runner.MetadataFile)
	}

	printer.Info("\nNext steps:\n")
	printer.Info("  • Inspect the assembled workspaces under %s\n", filepath.Join(result.Root, pool.TasksDir))
	printer.Info("  • Exit codes per task are recorded in %s\n", filepath.Join(result.Root, runner.MetadataFile))

	return nil
}

// runFailure renders the failure classes the user can act on; everything
// else propagates untouched.
func runFailure(name string, err error) error {
	var notFound *pool.NotFoundError
	if errors.As(err, &notFound) {
		if notFound.Kind == "experiment" {
			return printer.Error(
				fmt.Sprintf("experiment '%s' not found", name),
				fmt.Sprintf("The %s/ pool has no declaration with that name.", pool.ExperimentsDir),
				[]string{
					"Run 'forge list' to see what is declared",
					"Run 'forge init' to scaffold an example benchmark root",
				},
			)
		}
		return printer.Error(
			fmt.Sprintf("%s '%s' not found", notFound.Kind, notFound.Name),
			fmt.Sprintf("The declaration references a %s the %s/ pool does not hold.", notFound.Kind, notFound.Pool),
			[]string{
				"Run 'forge list' to see the pools",
				fmt.Sprintf("Run 'forge plan %s' to see every name the expansion needs", name),
			},
		)
	}

	var variantErr *experiment.VariantError
	if errors.As(err, &variantErr) {
		return printer.Error(
			fmt.Sprintf("variant '%s' not available", variantErr.Variant),
			err.Error(),
			[]string{fmt.Sprintf("Run 'forge plan %s' to see the declared variants", name)},
		)
	}

	return err
}
