package markdead

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/history"
)

func TestCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := application.DefaultSettings()
	s.InputDir = t.TempDir()
	s.OutputDir = s.InputDir
	s.HistoryDir = filepath.Join(t.TempDir(), "history")

	require.NoError(t, bangs.WriteSet(filepath.Join(s.InputDir, bangs.SnapshotFile), bangs.Set{
		{Code: []string{"!ok"}, Rank: 1, DDGR: 2, Name: "Ok", Tags: []string{}, URLs: bangs.URLs{S: srv.URL + "/search?q=%s"}},
		{Code: []string{"!gone"}, Rank: 2, DDGR: 1, Name: "Gone", Tags: []string{}, URLs: bangs.URLs{S: srv.URL + "/gone?q=%s"}},
		{Code: []string{"!rel"}, Rank: 2, DDGR: 1, Name: "Relative", Tags: []string{}, URLs: bangs.URLs{S: "http://bang-provider/search?q=%s"}},
	}))

	cmd := NewCommand(&application.Mock{
		SettingsFunc: func() application.Settings { return s },
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--concurrency", "2", "--timeout", "5s"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Probed 2 of 3 bangs")
	assert.Contains(t, out.String(), "404: Missing")

	set, err := bangs.ReadSet(filepath.Join(s.OutputDir, bangs.SnapshotFile))
	require.NoError(t, err)
	require.Len(t, set, 3)
	for i, want := range []int{200, 404, 0} {
		require.NotNil(t, set[i].Status, set[i].Trigger())
		assert.Equal(t, want, *set[i].Status, set[i].Trigger())
	}
	assert.Equal(t, "skipped", set[2].StatusText)

	report, err := os.ReadFile(filepath.Join(s.OutputDir, bangs.ReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "# 404: Missing")
	assert.Contains(t, string(report), "!gone")

	entries, err := history.New(s.HistoryDir).Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "markdead", entries[0].Operation)
	assert.FileExists(t, filepath.Join(entries[0].After(), bangs.ReportFile))
}
