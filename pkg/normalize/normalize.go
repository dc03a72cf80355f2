// Package normalize canonicalizes bang URL templates into comparable strings
// and extracts hostnames from them.
//
// Normalization is best-effort: it never fails. Malformed escapes or URLs
// that cannot be parsed fall back to the partially processed string so a single
// bad record cannot stop a batch.
package normalize

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/purell"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/errors"
)

// Options controls URL normalization.
type Options struct {
	// StripWWW removes a leading "www." label from the host.
	StripWWW bool
	// KeepCase preserves the case of the result; by default it is lowercased.
	KeepCase bool
}

// Option is a functional option for URL normalization.
type Option func(*Options)

// WithStripWWW removes a leading "www." label from the host.
func WithStripWWW() Option {
	return func(o *Options) {
		o.StripWWW = true
	}
}

// WithKeepCase preserves the case of the normalized URL.
func WithKeepCase() Option {
	return func(o *Options) {
		o.KeepCase = true
	}
}

// baseFlags is the standard normalization applied to every template.
const baseFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveTrailingSlash |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveDotSegments

// URL canonicalizes a bang URL template.
//
// Relative provider links are resolved against the provider origin, escapes
// are undone until a fixed point, the URL is normalized, escapes introduced by
// normalization are undone again, and the provider placeholder is rewritten to
// the canonical one.
func URL(raw string, opts ...Option) string {
	s, _ := normalizeURL(raw, opts...)
	return s
}

// normalizeURL is URL that also reports whether standard normalization could
// not parse the input. The returned string is usable either way.
func normalizeURL(raw string, opts ...Option) (string, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	s := raw
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		s = constants.ProviderOrigin + s
	}

	s = strings.TrimSpace(Unescape(s))
	s, err := standard(s, o.StripWWW)
	s = strings.TrimSpace(Unescape(s))

	if !o.KeepCase {
		s = strings.ToLower(s)
	}

	return strings.ReplaceAll(s, bangs.ProviderPlaceholder, bangs.Placeholder), err
}

// Template normalizes a canonical URL template into a grouping key.
// The canonical placeholder is swapped for a neutral token while normalizing
// so the escaping rules cannot mangle it, and restored afterwards.
func Template(s string, opts ...Option) string {
	key, _ := Key(s, opts...)
	return key
}

// Key is Template for callers that want to know about unparsable input.
// The key is always usable; a non-nil error means standard normalization was
// skipped and the key is only unescaped and lowercased.
func Key(s string, opts ...Option) (string, error) {
	const token = "{s}"
	n, err := normalizeURL(strings.ReplaceAll(s, bangs.Placeholder, token), opts...)
	if err != nil {
		err = errors.WrapParse("url", s, err)
	}
	return strings.ReplaceAll(n, token, bangs.Placeholder), err
}

// standard applies scheme/host/port/slash/query normalization. Input that
// cannot be parsed as a URL is returned unchanged along with the parse error.
func standard(s string, stripWWW bool) (string, error) {
	flags := baseFlags
	if stripWWW {
		flags |= purell.FlagRemoveWWW
	}

	normalized, err := purell.NormalizeURLString(s, flags)
	if err != nil {
		return s, err
	}
	return sortQuery(normalized), nil
}

// sortQuery orders the "&"-separated query segments of s by key, keeping the
// relative order of equal keys. Segments are moved verbatim: nothing is
// re-encoded and a segment without "=" stays without one.
func sortQuery(s string) string {
	base, query, ok := strings.Cut(s, "?")
	if !ok {
		return s
	}
	query, fragment, hasFragment := strings.Cut(query, "#")

	segments := strings.Split(query, "&")
	slices.SortStableFunc(segments, func(a, b string) int {
		return strings.Compare(queryKey(a), queryKey(b))
	})

	out := base + "?" + strings.Join(segments, "&")
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

func queryKey(segment string) string {
	key, _, _ := strings.Cut(segment, "=")
	return key
}

// Unescape repeatedly percent- and backslash-unescapes s until it stops
// changing, giving up after constants.MaxUnescapeRounds rounds. A malformed
// escape sequence stops the loop and the string unescaped so far is returned.
func Unescape(s string) string {
	for range constants.MaxUnescapeRounds {
		next, err := unescapeOnce(s)
		if err != nil || next == s {
			return s
		}
		s = next
	}
	return s
}

func unescapeOnce(s string) (string, error) {
	s = unescapeBackslashes(s)
	return url.PathUnescape(s)
}

// unescapeBackslashes turns "\x" into "x", leaving a trailing lone backslash.
func unescapeBackslashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
