package list

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/errors"
)

func status(code int) *int {
	return &code
}

func testSet() bangs.Set {
	return bangs.Set{
		{Code: []string{"!a"}, Rank: 1, DDGR: 3, Name: "A", Tags: []string{}, URLs: bangs.URLs{S: "https://a.example/%s"}, Status: status(200)},
		{Code: []string{"!b"}, Rank: 2, DDGR: 2, Name: "B", Tags: []string{}, URLs: bangs.URLs{S: "https://b.example/%s"}, Status: status(404)},
		{Code: []string{"!c"}, Rank: 3, DDGR: 1, Name: "C", Tags: []string{}, URLs: bangs.URLs{S: "https://c.example/%s"}, Status: status(410)},
		{Code: []string{"!d"}, Rank: 3, DDGR: 1, Name: "D", Tags: []string{}, URLs: bangs.URLs{S: "https://d.example/%s"}},
	}
}

func triggers(set bangs.Set) []string {
	out := []string{}
	for _, b := range set {
		out = append(out, b.Trigger())
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		want    []string
		wantErr bool
	}{
		{name: "no filter", want: []string{"!a", "!b", "!c", "!d"}},
		{name: "limit", flags: Flags{Limit: 2}, want: []string{"!a", "!b"}},
		{name: "missing", flags: Flags{Status: "404"}, want: []string{"!b"}},
		{name: "client errors exclude 404", flags: Flags{Status: "4xx"}, want: []string{"!c"}},
		{name: "full label", flags: Flags{Status: "2xx: Success"}, want: []string{"!a"}},
		{name: "unprobed", flags: Flags{Status: "???"}, want: []string{"!d"}},
		{name: "empty class", flags: Flags{Status: "5xx"}, want: []string{}},
		{name: "unknown class", flags: Flags{Status: "teapot"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(testSet(), &tt.flags)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, triggers(got))
		})
	}
}

func TestCommand_JSON(t *testing.T) {
	s := application.DefaultSettings()
	s.InputDir = t.TempDir()
	require.NoError(t, bangs.WriteSet(filepath.Join(s.InputDir, bangs.SnapshotFile), testSet()))

	cmd := NewCommand(&application.Mock{
		SettingsFunc:     func() application.Settings { return s },
		OutputFormatFunc: func() string { return "json" },
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--status", "404"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var got bangs.Set
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []string{"!b"}, triggers(got))
}

func TestCommand_InvalidFormat(t *testing.T) {
	cmd := NewCommand(&application.Mock{
		OutputFormatFunc: func() string { return "xml" },
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
