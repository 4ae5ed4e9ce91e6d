package main

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
)

// envPrefix maps flags to environment variables: --max-active-tasks is
// also read from IQ_MAX_ACTIVE_TASKS.
const envPrefix = "IQ"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "interface-queue",
		Short:             "Bounded, priority aware access to an embedded DuckDB database",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cobrautil.SyncViperPreRunE(envPrefix),
	}

	root.AddCommand(
		newRunCommand(),
		newStatusCommand(),
		newTasksCommand(),
		newLimitCommand(),
	)
	return root
}
