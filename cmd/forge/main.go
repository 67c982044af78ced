package main

import (
	"fmt"
	"os"

	"github.com/dyluth/forge/cmd/forge/commands"
)

// Build metadata, stamped in through -ldflags on release builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
