// Package deduplicate provides the deduplicate command.
package deduplicate

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/dedupe"
)

// NewCommand creates the deduplicate command.
func NewCommand(app application.Application) *cobra.Command {
	var dirs *cmdutil.DirFlags

	cmd := &cobra.Command{
		Use:     "deduplicate",
		Aliases: []string{"dedupe"},
		GroupID: "core",
		Short:   "Collapse bangs that point at the same URL",
		Long: `Deduplicate groups the canonical bangs by their normalized search URL and
collapses every group into one record carrying all triggers of its members.

The highest tier wins the name; the names that lose become "#AKA/" tags.
Running deduplicate on its own output changes nothing.`,
		Example: `  bangmap deduplicate
  bangmap dedupe --input-dir bangs --output-dir bangs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := dirs.Apply(app.Settings())
			ctx := cmdutil.Context(cmd.Context(), app, "deduplicate")

			return cmdutil.Recorded(ctx, s, "deduplicate", func(ctx context.Context) error {
				return Run(ctx, s, cmd.OutOrStdout())
			})
		},
	}

	dirs = cmdutil.AddDirFlags(cmd, true)

	return cmd
}

// Run deduplicates the snapshot of s.InputDir into s.OutputDir and prints a
// summary to w.
func Run(ctx context.Context, s application.Settings, w io.Writer) error {
	set, err := bangs.ReadSet(filepath.Join(s.InputDir, bangs.SnapshotFile))
	if err != nil {
		return err
	}

	result := dedupe.Deduplicate(ctx, set)

	path := filepath.Join(s.OutputDir, bangs.SnapshotFile)
	if err := bangs.WriteSet(path, result.Bangs); err != nil {
		return err
	}

	fmt.Fprintf(w, "Deduplicated %d bangs into %d in %s (%d collapsed, %d skipped)\n",
		len(set), len(result.Bangs), path, result.Collapsed, result.Skipped)
	return nil
}
