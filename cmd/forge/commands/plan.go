package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dyluth/forge/internal/experiment"
	"github.com/dyluth/forge/internal/pool"
	"github.com/dyluth/forge/internal/printer"
	"github.com/spf13/cobra"
)

var (
	planVariant string
	planJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan <experiment>",
	Short: "Show the tasks an experiment would run",
	Long: `Show the task expansion of an experiment declaration without touching disk.

Each row is one workspace 'forge run' would materialize: the task, the
variant it belongs to, the destination directory under the run root,
and the shard stack in application order.

Use --json for machine-readable output.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planVariant, "variant", "", "Expand only this variant")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	declPath, err := layout().Experiment(args[0])
	if err != nil {
		var notFound *pool.NotFoundError
		if errors.As(err, &notFound) {
			return printer.Error(
				fmt.Sprintf("experiment '%s' not found", args[0]),
				fmt.Sprintf("The %s/ pool has no declaration with that name.", pool.ExperimentsDir),
				[]string{
					"Run 'forge list' to see what is declared",
					"Run 'forge init' to scaffold an example benchmark root",
				},
			)
		}
		return err
	}
	decl, err := experiment.Load(declPath)
	if err != nil {
		return printer.Error(
			fmt.Sprintf("cannot load '%s'", args[0]),
			err.Error(),
			[]string{fmt.Sprintf("Fix the declaration at %s", declPath)},
		)
	}
	planned, err := experiment.Plan(decl, planVariant)
	if err != nil {
		return printer.Error(
			fmt.Sprintf("variant '%s' not available", planVariant),
			err.Error(),
			[]string{fmt.Sprintf("Run 'forge plan %s' without --variant to see everything declared", args[0])},
		)
	}

	if planJSON {
		data, err := json.MarshalIndent(planned, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Print header
	fmt.Printf("%-20s %-15s %-30s %s\n", "TASK", "VARIANT", "DIR", "SHARDS")

	// Print rows
	for _, task := range planned {
		variant := task.Variant
		if variant == "" {
			variant = "-"
		}
		fmt.Printf("%-20s %-15s %-30s %s\n", task.Name, variant, task.Dir, strings.Join(task.Shards, ", "))
	}

	countMsg := "task"
	if len(planned) != 1 {
		countMsg = "tasks"
	}
	fmt.Printf("\n%d %s planned\n", len(planned), countMsg)

	return nil
}
