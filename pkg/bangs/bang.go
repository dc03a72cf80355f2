// Package bangs defines the canonical bang record shared by every stage of the
// curation pipeline, the raw provider record shapes read by the merge stage,
// and JSON snapshot reading and writing.
//
// A bang is a search shortcut such as "!gh" that redirects a query to a
// site's search URL. Records are never mutated in place; each stage returns a
// fresh slice that becomes the sole input to the next stage.
package bangs

import (
	"slices"
	"strings"
)

// Placeholder is the canonical search-term token inside a URL template.
const Placeholder = "%s"

// ProviderPlaceholder is the search-term token used by the raw provider files.
const ProviderPlaceholder = "{{{s}}}"

// URLs holds the URL templates of a bang.
type URLs struct {
	// S is the search URL template; it contains Placeholder where the query goes.
	S string `json:"s" yaml:"s"`
}

// Bang is the canonical bang record.
type Bang struct {
	Code []string `json:"code" yaml:"code"`
	Rank int      `json:"rank" yaml:"rank"`
	DDGR int      `json:"ddgr" yaml:"ddgr"`
	Name string   `json:"name" yaml:"name"`
	Tags []string `json:"tags" yaml:"tags"`
	URLs URLs     `json:"urls" yaml:"urls"`

	// Status and StatusText are set by the liveness checker. A nil Status
	// means the record has never been probed.
	Status     *int   `json:"status,omitempty" yaml:"status,omitempty"`
	StatusText string `json:"statusText,omitempty" yaml:"statusText,omitempty"`
}

// Trigger returns the primary trigger of the bang, or "" if it has none.
func (b Bang) Trigger() string {
	if len(b.Code) == 0 {
		return ""
	}
	return b.Code[0]
}

// FirstTag returns the first tag of the bang, or "" if it has none.
func (b Bang) FirstTag() string {
	if len(b.Tags) == 0 {
		return ""
	}
	return b.Tags[0]
}

// Probed reports whether the liveness checker has classified the bang.
func (b Bang) Probed() bool {
	return b.Status != nil
}

// ResolvedURL returns the search URL with the placeholder replaced by term.
func (b Bang) ResolvedURL(term string) string {
	return strings.ReplaceAll(b.URLs.S, Placeholder, term)
}

// Clone returns a deep copy of the bang.
func (b Bang) Clone() Bang {
	c := b
	c.Code = slices.Clone(b.Code)
	c.Tags = slices.Clone(b.Tags)
	if b.Status != nil {
		status := *b.Status
		c.Status = &status
	}
	return c
}

// WithStatus returns a copy of the bang annotated with a liveness result.
func (b Bang) WithStatus(status int, text string) Bang {
	c := b.Clone()
	c.Status = &status
	c.StatusText = text
	return c
}

// Valid reports whether the bang has at least one non-empty trigger.
func (b Bang) Valid() bool {
	for _, code := range b.Code {
		if strings.TrimPrefix(code, "!") != "" {
			return true
		}
	}
	return false
}

// Set is an ordered sequence of canonical bangs.
type Set []Bang

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for i, b := range s {
		out[i] = b.Clone()
	}
	return out
}
