package main

import (
	"os"

	"github.com/jmylchreest/bulbctl/cmd/bulbctl/commands"
	"github.com/jmylchreest/bulbctl/internal/utils"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Replaced once the config is loaded in the root command
	logger := utils.SetupErrorLogger()

	rootCmd := commands.NewRootCommand(logger, version, commit, buildDate)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
