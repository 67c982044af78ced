package commands

import (
	"fmt"

	"github.com/dyluth/forge/internal/pool"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var rootDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Forge - configuration experiment harness",
	Long: `Forge assembles and runs configuration experiments.

An experiment declaration names tasks from the task pool and config
shards from the shard pool. For every task, and optionally for every
variant, forge materializes an isolated workspace by layering the
shards and the task tree on top of each other, deep merging structured
settings files where they collide, then runs the task's entrypoint and
the declared evaluators inside that workspace.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// layout returns the benchmark root every subcommand operates on.
func layout() pool.Layout {
	return pool.Layout{Root: rootDir}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".",
		"Benchmark root holding the config_forge/, tasks/, evals/ and experiments/ pools")
}
