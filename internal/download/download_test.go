package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/internal/transport"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/errors"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bang.js":
			_, _ = w.Write([]byte(`[{"t":"g","r":5,"u":"https://google.com/search?q={{{s}}}"}]`))
		case "/bangs.json":
			_, _ = w.Write([]byte(`[{"t":"k","s":"Kagi","u":"https://kagi.com/search?q={{{s}}}"}]`))
		case "/html":
			_, _ = w.Write([]byte(`<html>rate limited</html>`))
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	srv := newServer(t)
	dir := filepath.Join(t.TempDir(), "bangs")

	d := New(transport.New(),
		Source{Name: "duckduckgo", URL: srv.URL + "/bang.js", File: bangs.PrimaryFile},
		Source{Name: "kagi", URL: srv.URL + "/bangs.json", File: "bangs.json"},
	)

	results, err := d.Download(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "duckduckgo", results[0].Source.Name)
	assert.Equal(t, "kagi", results[1].Source.Name)

	primary, err := bangs.ReadRaw(filepath.Join(dir, bangs.PrimaryFile))
	require.NoError(t, err)
	require.Len(t, primary, 1)
	assert.Equal(t, 5, primary[0].Tier)

	data, err := os.ReadFile(filepath.Join(dir, "bangs.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n")
	assert.Equal(t, len(data), results[1].Bytes)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDownload_PartialFailure(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()

	d := New(transport.New(),
		Source{Name: "ok", URL: srv.URL + "/bangs.json", File: "bangs.json"},
		Source{Name: "down", URL: srv.URL + "/down", File: "down.json"},
		Source{Name: "html", URL: srv.URL + "/html", File: "html.json"},
	)

	results, err := d.Download(context.Background(), dir)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Source.Name)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.True(t, errors.IsProviderUnavailable(err))

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)

	assert.FileExists(t, filepath.Join(dir, "bangs.json"))
	assert.NoFileExists(t, filepath.Join(dir, "down.json"))
	assert.NoFileExists(t, filepath.Join(dir, "html.json"))
}

func TestDownload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := New(transport.New(), Source{Name: "gone", URL: url + "/bang.js", File: "x.json"})
	_, err := d.Download(context.Background(), t.TempDir())

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "gone", apiErr.Provider)
	assert.Zero(t, apiErr.StatusCode)
}

func TestNew_Defaults(t *testing.T) {
	d := New(nil)
	require.Len(t, d.Sources(), 3)
	assert.Equal(t, bangs.PrimaryFile, d.Sources()[0].File)
	assert.Equal(t, "https://duckduckgo.com/bang.js", d.Sources()[0].URL)
}
