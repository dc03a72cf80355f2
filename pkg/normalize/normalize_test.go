package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bangmap/pkg/errors"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts []Option
		want string
	}{
		{
			name: "provider placeholder becomes canonical",
			raw:  "https://www.Google.com/search?q={{{s}}}",
			opts: []Option{WithStripWWW()},
			want: "https://google.com/search?q=%s",
		},
		{
			name: "www kept without option",
			raw:  "https://www.google.com/search?q={{{s}}}",
			want: "https://www.google.com/search?q=%s",
		},
		{
			name: "relative provider link",
			raw:  "/search?q={{{s}}}",
			want: "http://bang-provider/search?q=%s",
		},
		{
			name: "keep case only lowers scheme and host",
			raw:  "HTTPS://Example.com/Search?Q={{{s}}}",
			opts: []Option{WithKeepCase()},
			want: "https://example.com/Search?Q=%s",
		},
		{
			name: "default port and trailing slash",
			raw:  "http://example.com:80/a/",
			want: "http://example.com/a",
		},
		{
			name: "duplicate slashes",
			raw:  "https://example.com//a//b",
			want: "https://example.com/a/b",
		},
		{
			name: "multiply escaped",
			raw:  "https%253A%252F%252Fexample.com%252Fsearch%253Fq%253D{{{s}}}",
			want: "https://example.com/search?q=%s",
		},
		{
			name: "bare placeholder query",
			raw:  "https://example.com/search?{{{s}}}",
			want: "https://example.com/search?%s",
		},
		{
			name: "bare placeholder sorts by its own key",
			raw:  "https://example.com/search?{{{s}}}&lang=en",
			want: "https://example.com/search?lang=en&%s",
		},
		{
			name: "query sorted by key",
			raw:  "https://example.com/search?z=1&q={{{s}}}&a=2",
			want: "https://example.com/search?a=2&q=%s&z=1",
		},
		{
			name: "repeated keys keep their order",
			raw:  "https://example.com/search?q={{{s}}}&q=b",
			want: "https://example.com/search?q=%s&q=b",
		},
		{
			name: "surrounding whitespace",
			raw:  "  https://example.com/a  ",
			want: "https://example.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.raw, tt.opts...))
		})
	}
}

func TestURL_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"%",
		"%zz",
		"http://[::1",
		"://no-scheme",
		`\\\\`,
		strings.Repeat("%25", 64) + "41",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { URL(in) }, in)
	}
}

func TestTemplate_PlaceholderSurvives(t *testing.T) {
	inputs := []string{
		"https://EN.wikipedia.org/wiki/%s",
		"https://duckduckgo.com/?q=%s&ia=web",
		"https://example.com/%s/page",
		"http://bang-provider/search?q=%s",
	}
	for _, in := range inputs {
		got := Template(in)
		assert.Contains(t, got, "%s", in)
		assert.NotContains(t, got, "{s}", in)
	}

	assert.Equal(t, "https://en.wikipedia.org/wiki/%s", Template("https://EN.wikipedia.org/wiki/%s"))
}

func TestTemplate_SameTargetSameKey(t *testing.T) {
	a := Template("https://en.wikipedia.org/wiki/%s")
	b := Template("https://en.wikipedia.org//wiki/%s")
	c := Template("HTTPS://EN.WIKIPEDIA.ORG/wiki/%s")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, Template("https://de.wikipedia.org/wiki/%s"))
}

func TestKey(t *testing.T) {
	key, err := Key("https://EN.wikipedia.org/wiki/%s")
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/%s", key)

	key, err = Key("http://[::1/%s")
	require.Error(t, err)
	assert.Equal(t, "http://[::1/%s", key)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "url", parseErr.Format)
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com/a", "https://example.com/a"},
		{"single", "a%20b", "a b"},
		{"fixed point", "a%252541", "aA"},
		{"invalid escape returns partial", "a%2525b", "a%b"},
		{"bad escape untouched", "q=%s", "q=%s"},
		{"backslashes", `https:\/\/example.com\/a`, "https://example.com/a"},
		{"trailing backslash", `a\`, `a\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestUnescape_Capped(t *testing.T) {
	// Each round peels one layer; more layers than the cap leave escapes behind.
	in := "%41"
	for range 20 {
		in = strings.ReplaceAll(in, "%", "%25")
	}
	assert.Contains(t, Unescape(in), "%")
	assert.Equal(t, "A", Unescape("%2541"))
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"template", "https://en.wikipedia.org/wiki/%s", "en.wikipedia.org"},
		{"port stripped", "https://example.com:8080/", "example.com"},
		{"provider", "http://bang-provider/search?q=%s", "bang-provider"},
		{"no host falls back", "not a url", "not a url"},
		{"unparsable falls back", "http://[::1", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Domain(tt.in))
		})
	}
}
