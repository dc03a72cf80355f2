package cmdutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/history"
)

func TestDirFlags_Apply(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddDirFlags(cmd, true)
	require.NoError(t, cmd.ParseFlags([]string{"--output-dir", "out"}))

	got := flags.Apply(application.DefaultSettings())
	assert.Equal(t, "bangs", got.InputDir)
	assert.Equal(t, "out", got.OutputDir)
}

func TestDirFlags_OutputOnly(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddDirFlags(cmd, false)
	assert.Nil(t, cmd.Flags().Lookup("input-dir"))
	assert.NotNil(t, cmd.Flags().Lookup("output-dir"))
}

func TestProbeFlags_Apply(t *testing.T) {
	base := application.DefaultSettings()
	base.ProbeRate = 5

	tests := []struct {
		name string
		args []string
		want func(s *application.Settings)
	}{
		{
			name: "unset flags keep settings",
			args: nil,
			want: func(*application.Settings) {},
		},
		{
			name: "concurrency and timeout",
			args: []string{"-c", "4", "--timeout", "2s"},
			want: func(s *application.Settings) {
				s.ProbeConcurrency = 4
				s.ProbeTimeout = 2 * time.Second
			},
		},
		{
			name: "explicit zero rate disables the limit",
			args: []string{"--rate", "0"},
			want: func(s *application.Settings) {
				s.ProbeRate = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			flags := AddProbeFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			want := base
			tt.want(&want)
			assert.Equal(t, want, flags.Apply(base))
		})
	}
}

func TestRecorded(t *testing.T) {
	s := application.DefaultSettings()
	s.OutputDir = t.TempDir()
	s.HistoryDir = filepath.Join(t.TempDir(), "history")

	var ran bool
	err := Recorded(context.Background(), s, "test", func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	entries, err := history.New(s.HistoryDir).Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test", entries[0].Operation)
}
