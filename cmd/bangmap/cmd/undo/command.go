// Package undo provides the undo command.
package undo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/pkg/history"
)

// NewCommand creates the undo command.
func NewCommand(app application.Application) *cobra.Command {
	var dirs *cmdutil.DirFlags

	cmd := &cobra.Command{
		Use:     "undo",
		GroupID: "management",
		Short:   "Revert the last recorded command",
		Long: `Undo restores the output directory to the state it had before the most
recent download, merge, deduplicate or markdead, and removes that entry
from the history directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := dirs.Apply(app.Settings())
			ctx := cmdutil.Context(cmd.Context(), app, "undo")

			entry, err := history.New(s.HistoryDir).Undo(ctx, s.OutputDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reverted %s from %s\n",
				entry.Operation, entry.Time.Format(history.TimeLayout))
			return nil
		},
	}

	dirs = cmdutil.AddDirFlags(cmd, false)

	return cmd
}
