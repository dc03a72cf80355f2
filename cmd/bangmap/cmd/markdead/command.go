// Package markdead provides the markdead command.
package markdead

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/internal/transport"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/liveness"
)

// NewCommand creates the markdead command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		dirs  *cmdutil.DirFlags
		probe *cmdutil.ProbeFlags
	)

	cmd := &cobra.Command{
		Use:     "markdead",
		GroupID: "core",
		Short:   "Probe every bang URL and report the dead ones",
		Long: `Markdead sends a HEAD request to the search URL of every canonical bang,
with "test" as the query, and records the HTTP status on the record.

Bangs that already carry a status are not probed again, and relative
provider links are skipped. Failed requests are recorded as status 900.
The annotated set is written to zbangs.json and a Markdown report grouped
by status class is written to dead-bangs.md.`,
		Example: `  bangmap markdead
  bangmap markdead --concurrency 8 --timeout 5s
  bangmap markdead --rate 20                  # At most 20 probes per second`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := probe.Apply(dirs.Apply(app.Settings()))
			ctx := cmdutil.Context(cmd.Context(), app, "markdead")

			return cmdutil.Recorded(ctx, s, "markdead", func(ctx context.Context) error {
				return Run(ctx, s, cmd.OutOrStdout())
			})
		},
	}

	dirs = cmdutil.AddDirFlags(cmd, true)
	probe = cmdutil.AddProbeFlags(cmd)

	return cmd
}

// Run probes the snapshot of s.InputDir, writes the annotated snapshot and
// the report to s.OutputDir and prints the per-class counts to w.
func Run(ctx context.Context, s application.Settings, w io.Writer) error {
	set, err := bangs.ReadSet(filepath.Join(s.InputDir, bangs.SnapshotFile))
	if err != nil {
		return err
	}

	client := transport.New(
		transport.WithTimeout(s.ProbeTimeout),
		transport.WithRateLimit(s.ProbeRate),
	)
	checker := liveness.New(client,
		liveness.WithConcurrency(s.ProbeConcurrency),
		liveness.WithTimeout(s.ProbeTimeout),
	)

	result, err := checker.Check(ctx, set)
	if err != nil {
		return err
	}

	if err := bangs.WriteSet(filepath.Join(s.OutputDir, bangs.SnapshotFile), result.Bangs); err != nil {
		return err
	}

	report, err := liveness.NewReporter("").Render(result.Bangs)
	if err != nil {
		return err
	}
	reportPath := filepath.Join(s.OutputDir, bangs.ReportFile)
	if err := bangs.WriteFile(reportPath, []byte(report)); err != nil {
		return err
	}

	fmt.Fprintf(w, "Probed %d of %d bangs, report written to %s\n", result.Probed, len(result.Bangs), reportPath)
	for _, class := range liveness.Classes() {
		if n := result.Counts[class]; n > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", class, n)
		}
	}
	return nil
}
