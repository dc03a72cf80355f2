package normalize

import (
	"net/url"
	"strings"

	"github.com/agentstation/bangmap/pkg/bangs"
)

// Domain returns the hostname of a normalized URL template. When the URL
// cannot be parsed the input is returned unchanged so callers comparing
// domains still get a bounded result.
func Domain(raw string) string {
	// "%s" is not a valid escape; it cannot appear in a hostname anyway.
	u, err := url.Parse(strings.ReplaceAll(raw, bangs.Placeholder, "s"))
	if err != nil {
		return raw
	}
	if u.Host == "" {
		return raw
	}
	return u.Hostname()
}
