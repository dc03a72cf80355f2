package liveness

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/bangmap/pkg/bangs"
)

func intPtr(i int) *int { return &i }

func TestClassify(t *testing.T) {
	tests := []struct {
		status *int
		want   Class
	}{
		{intPtr(404), ClassMissing},
		{intPtr(900), ClassFetchError},
		{intPtr(0), ClassSkipped},
		{intPtr(200), ClassSuccess},
		{intPtr(204), ClassSuccess},
		{intPtr(301), ClassRedirect},
		{intPtr(399), ClassRedirect},
		{intPtr(400), ClassClientError},
		{intPtr(451), ClassClientError},
		{intPtr(500), ClassServerError},
		{intPtr(599), ClassServerError},
		{intPtr(100), ClassOther},
		{intPtr(600), ClassOther},
		{intPtr(-1), ClassOther},
		{nil, ClassOther},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.status != nil {
			name = strconv.Itoa(*tt.status)
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status))
		})
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in     string
		want   Class
		wantOK bool
	}{
		{"404", ClassMissing, true},
		{"4xx", ClassClientError, true},
		{"3xx: Redirect", ClassRedirect, true},
		{"000", ClassSkipped, true},
		{"???", ClassOther, true},
		{"dead", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClass(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroup(t *testing.T) {
	set := bangs.Set{
		{Code: []string{"!a"}, Status: intPtr(404)},
		{Code: []string{"!b"}, Status: intPtr(200)},
		{Code: []string{"!c"}, Status: intPtr(410)},
		{Code: []string{"!d"}, Status: intPtr(404)},
		{Code: []string{"!e"}},
	}

	groups := Group(set)

	assert.Len(t, groups[ClassMissing], 2)
	assert.Equal(t, "!a", groups[ClassMissing][0].Trigger())
	assert.Equal(t, "!d", groups[ClassMissing][1].Trigger())
	assert.Len(t, groups[ClassClientError], 1)
	assert.Len(t, groups[ClassOther], 1)
}

func TestClasses(t *testing.T) {
	all := Classes()
	assert.Len(t, all, len(ReportOrder)+1)
	assert.Equal(t, ClassOther, all[len(all)-1])
	assert.NotContains(t, ReportOrder, ClassOther)
}
