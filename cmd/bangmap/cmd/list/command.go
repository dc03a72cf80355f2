// Package list provides the list command.
package list

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/internal/cmd/output"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/errors"
	"github.com/agentstation/bangmap/pkg/liveness"
)

// Flags holds the list filters.
type Flags struct {
	Limit  int
	Status string
}

// NewCommand creates the list command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		dirs  *cmdutil.DirFlags
		flags = &Flags{}
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "management",
		Short:   "List the canonical bangs",
		Long: `List prints the canonical bang set in rank order.

Use --status to show one status class only, for example "404", "5xx" or
"000" for skipped bangs.`,
		Example: `  bangmap list                                # Table of all bangs
  bangmap list --status 404 --format json     # Missing bangs as JSON
  bangmap list --limit 20 -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := dirs.Apply(app.Settings())

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if format == "" {
				format = output.DetectFormat("")
			}

			return Run(s, flags, format, cmd.OutOrStdout())
		},
	}

	dirs = &cmdutil.DirFlags{}
	cmd.Flags().StringVar(&dirs.InputDir, "input-dir", "",
		"Directory to read zbangs.json from (default from config, \"bangs\")")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 0,
		"Limit number of results")
	cmd.Flags().StringVar(&flags.Status, "status", "",
		"Only show bangs of this status class (404, 900, 000, 2xx, 3xx, 4xx, 5xx, ???)")

	return cmd
}

// Run writes the filtered snapshot of s.InputDir to w.
func Run(s application.Settings, flags *Flags, format output.Format, w io.Writer) error {
	set, err := bangs.ReadSet(filepath.Join(s.InputDir, bangs.SnapshotFile))
	if err != nil {
		return err
	}

	set, err = Filter(set, flags)
	if err != nil {
		return err
	}

	return output.FormatBangs(w, set, format)
}

// Filter applies the status filter and then the limit.
func Filter(set bangs.Set, flags *Flags) (bangs.Set, error) {
	if flags.Status != "" {
		class, ok := liveness.ParseClass(flags.Status)
		if !ok {
			return nil, errors.NewValidationError("status", flags.Status, fmt.Sprintf("unknown status class %q", flags.Status))
		}
		set = liveness.Group(set)[class]
		if set == nil {
			set = bangs.Set{}
		}
	}

	if flags.Limit > 0 && len(set) > flags.Limit {
		set = set[:flags.Limit]
	}
	return set, nil
}
