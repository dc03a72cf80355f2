// Package download provides the download command.
package download

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/internal/download"
	"github.com/agentstation/bangmap/internal/transport"
)

// NewCommand creates the download command.
func NewCommand(app application.Application) *cobra.Command {
	var dirs *cmdutil.DirFlags

	cmd := &cobra.Command{
		Use:     "download",
		GroupID: "core",
		Short:   "Download the provider bang files",
		Long: `Download fetches the DuckDuckGo bang list and both Kagi bang files and
writes them, indented, to the output directory. Every source is attempted;
the command fails if any of them could not be stored.`,
		Example: `  bangmap download
  bangmap download --output-dir raw`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := dirs.Apply(app.Settings())
			ctx := cmdutil.Context(cmd.Context(), app, "download")

			return cmdutil.Recorded(ctx, s, "download", func(ctx context.Context) error {
				return Run(ctx, s, download.DefaultSources, cmd.OutOrStdout())
			})
		},
	}

	dirs = cmdutil.AddDirFlags(cmd, false)

	return cmd
}

// Run downloads sources into s.OutputDir and lists the stored files on w.
func Run(ctx context.Context, s application.Settings, sources []download.Source, w io.Writer) error {
	client := transport.New(transport.WithTimeout(s.DownloadTimeout))

	results, err := download.New(client, sources...).Download(ctx, s.OutputDir)
	for _, r := range results {
		fmt.Fprintf(w, "%-16s %8d bytes  %s\n", r.Source.Name, r.Bytes, r.Path)
	}
	return err
}
