package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/internal/cmd/cmdutil"
	"github.com/agentstation/bangmap/internal/download"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/history"
)

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"t":"g","u":"https://google.com/?q={{{s}}}"}]`))
	}))
	defer srv.Close()

	s := application.DefaultSettings()
	s.OutputDir = filepath.Join(t.TempDir(), "bangs")
	s.HistoryDir = filepath.Join(t.TempDir(), "history")

	sources := []download.Source{
		{Name: "primary", URL: srv.URL + "/bang.js", File: bangs.PrimaryFile},
		{Name: "secondary", URL: srv.URL + "/bangs.json", File: "bangs.json"},
	}

	var out bytes.Buffer
	err := cmdutil.Recorded(context.Background(), s, "download", func(ctx context.Context) error {
		return Run(ctx, s, sources, &out)
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "primary")
	assert.FileExists(t, filepath.Join(s.OutputDir, bangs.PrimaryFile))
	assert.FileExists(t, filepath.Join(s.OutputDir, "bangs.json"))

	raw, err := bangs.ReadRaw(filepath.Join(s.OutputDir, bangs.PrimaryFile))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, "g", raw[0].Trigger)

	entries, err := history.New(s.HistoryDir).Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.FileExists(t, filepath.Join(entries[0].After(), "bangs.json"))
}

func TestRun_ReportsFailedSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := application.DefaultSettings()
	s.OutputDir = t.TempDir()

	var out bytes.Buffer
	err := Run(context.Background(), s, []download.Source{
		{Name: "ok", URL: srv.URL + "/ok", File: "ok.json"},
		{Name: "missing", URL: srv.URL + "/missing", File: "missing.json"},
	}, &out)

	require.Error(t, err)
	assert.Contains(t, out.String(), "ok")
	assert.FileExists(t, filepath.Join(s.OutputDir, "ok.json"))
	assert.NoFileExists(t, filepath.Join(s.OutputDir, "missing.json"))
}

func TestNewCommand_Flags(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	assert.NotNil(t, cmd.Flags().Lookup("output-dir"))
	assert.Nil(t, cmd.Flags().Lookup("input-dir"))
}
