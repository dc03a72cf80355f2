// Package cmdutil provides shared flags and helpers for bangmap commands.
package cmdutil

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/bangmap/internal/cmd/application"
)

// DirFlags holds the directory overrides of a pipeline command.
type DirFlags struct {
	InputDir  string
	OutputDir string
}

// AddDirFlags adds --output-dir, and --input-dir when withInput is set, to a
// command. Unset flags fall back to the configured settings.
func AddDirFlags(cmd *cobra.Command, withInput bool) *DirFlags {
	flags := &DirFlags{}

	if withInput {
		cmd.Flags().StringVar(&flags.InputDir, "input-dir", "",
			"Directory to read bang files from (default from config, \"bangs\")")
	}
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "",
		"Directory to write results to (default from config, \"bangs\")")

	return flags
}

// Apply returns s with the flag overrides applied.
func (f *DirFlags) Apply(s application.Settings) application.Settings {
	if f.InputDir != "" {
		s.InputDir = f.InputDir
	}
	if f.OutputDir != "" {
		s.OutputDir = f.OutputDir
	}
	return s
}

// ProbeFlags holds the liveness probe overrides.
type ProbeFlags struct {
	Concurrency int
	Timeout     time.Duration
	Rate        float64

	cmd *cobra.Command
}

// AddProbeFlags adds the probe tuning flags to a command.
func AddProbeFlags(cmd *cobra.Command) *ProbeFlags {
	flags := &ProbeFlags{cmd: cmd}

	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", 0,
		"Concurrent probes, at most 16 (default from config, 16)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0,
		"Timeout of a single probe (default from config, 10s)")
	cmd.Flags().Float64Var(&flags.Rate, "rate", 0,
		"Maximum probes per second across all workers, 0 for unlimited")

	return flags
}

// Apply returns s with the flags that were set on the command line applied.
func (f *ProbeFlags) Apply(s application.Settings) application.Settings {
	if f.changed("concurrency") {
		s.ProbeConcurrency = f.Concurrency
	}
	if f.changed("timeout") {
		s.ProbeTimeout = f.Timeout
	}
	if f.changed("rate") {
		s.ProbeRate = f.Rate
	}
	return s
}

func (f *ProbeFlags) changed(name string) bool {
	return f.cmd != nil && f.cmd.Flags().Changed(name)
}
