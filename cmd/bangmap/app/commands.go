package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/cmd/bangmap/cmd/deduplicate"
	"github.com/agentstation/bangmap/cmd/bangmap/cmd/download"
	"github.com/agentstation/bangmap/cmd/bangmap/cmd/list"
	"github.com/agentstation/bangmap/cmd/bangmap/cmd/markdead"
	"github.com/agentstation/bangmap/cmd/bangmap/cmd/merge"
	"github.com/agentstation/bangmap/cmd/bangmap/cmd/undo"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Pipeline commands, in the order they are usually run
	rootCmd.AddCommand(download.NewCommand(a))
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(deduplicate.NewCommand(a))
	rootCmd.AddCommand(markdead.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(undo.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("bangmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
