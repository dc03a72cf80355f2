// Package merge provides the merge command.
package merge

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/merge"
)

// NewCommand creates the merge command.
func NewCommand(app application.Application) *cobra.Command {
	var dirs *cmdutil.DirFlags

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge the provider files into the canonical bang set",
		Long: `Merge reads the DuckDuckGo reference file and every other provider file
in the input directory and writes one canonical record per provider bang.

Each record inherits its popularity tier from the DuckDuckGo entry with the
same trigger. Triggers unknown to DuckDuckGo get the lowest tier, and records
whose domain disagrees with DuckDuckGo's are downgraded. The merged set is
ranked by tier and written to zbangs.json in the output directory.`,
		Example: `  bangmap merge                               # Merge ./bangs in place
  bangmap merge --input-dir raw --output-dir out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := dirs.Apply(app.Settings())
			ctx := cmdutil.Context(cmd.Context(), app, "merge")

			return cmdutil.Recorded(ctx, s, "merge", func(ctx context.Context) error {
				return Run(ctx, s, cmd.OutOrStdout())
			})
		},
	}

	dirs = cmdutil.AddDirFlags(cmd, true)

	return cmd
}

// Run merges the provider files of s.InputDir into s.OutputDir and prints a
// summary to w.
func Run(ctx context.Context, s application.Settings, w io.Writer) error {
	primary, sources, err := merge.Load(ctx, s.InputDir)
	if err != nil {
		return err
	}

	result := merge.New(primary).Merge(ctx, sources...)

	path := filepath.Join(s.OutputDir, bangs.SnapshotFile)
	if err := bangs.WriteSet(path, result.Bangs); err != nil {
		return err
	}

	fmt.Fprintf(w, "Merged %d bangs from %d sources into %s (%d tiers, %d downgraded, %d skipped)\n",
		len(result.Bangs), len(sources), path, len(result.Tally.Tiers()), result.Downgraded, result.Skipped)
	return nil
}
