package commands

import (
	"encoding/json"
	"fmt"

	"github.com/dyluth/forge/internal/pool"
	"github.com/spf13/cobra"
)

var (
	listJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the benchmark root's pools",
	Long: `List the contents of the benchmark root: config shards, tasks,
evaluators, experiment declarations and finished run roots.

Use --json for machine-readable output.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// poolListing is the machine-readable shape of 'forge list --json'.
type poolListing struct {
	Shards      []string `json:"shards"`
	Tasks       []string `json:"tasks"`
	Evals       []string `json:"evals"`
	Experiments []string `json:"experiments"`
	Runs        []string `json:"runs"`
}

func runList(cmd *cobra.Command, args []string) error {
	l := layout()

	var listing poolListing
	sections := []struct {
		title string
		dir   string
		list  func() ([]string, error)
		dst   *[]string
	}{
		{"Shards", pool.ShardsDir, l.Shards, &listing.Shards},
		{"Tasks", pool.TasksDir, l.Tasks, &listing.Tasks},
		{"Evals", pool.EvalsDir, l.Evals, &listing.Evals},
		{"Experiments", pool.ExperimentsDir, l.Experiments, &listing.Experiments},
		{"Runs", pool.ExperimentsDir, l.Runs, &listing.Runs},
	}

	empty := true
	for _, s := range sections {
		names, err := s.list()
		if err != nil {
			return err
		}
		if names == nil {
			names = []string{}
		}
		*s.dst = names
		if len(names) > 0 {
			empty = false
		}
	}

	if listJSON {
		data, err := json.MarshalIndent(listing, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal listing: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if empty {
		fmt.Println("Nothing here yet.")
		fmt.Println()
		fmt.Println("Run 'forge init' to create an example benchmark root.")
		return nil
	}

	for _, s := range sections {
		if len(*s.dst) == 0 {
			continue
		}
		fmt.Printf("%s (%s/):\n", s.title, s.dir)
		for _, name := range *s.dst {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
	}

	return nil
}
