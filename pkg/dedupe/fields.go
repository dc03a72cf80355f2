package dedupe

import (
	"strings"

	"github.com/agentstation/bangmap/pkg/bangs"
)

// Field selects the values of one record field that take part in a
// rank-collected map.
type Field func(bangs.Bang) []string

// nameOf selects the record name.
func nameOf(b bangs.Bang) []string {
	return []string{b.Name}
}

// tagsOf selects every tag of the record. Merge output carries at most one
// tag per record; deduplicated output may carry several.
func tagsOf(b bangs.Bang) []string {
	return b.Tags
}

// ranked is one occurrence of a field value and the rank of its record.
type ranked struct {
	rank  int
	value string
}

// rankMap maps a case-folded field value to every occurrence of it, keeping
// keys in first-seen order.
type rankMap struct {
	keys   []string
	values map[string][]ranked
}

// collect builds the rank-collected map of field over members. Empty values
// are ignored.
func collect(members []bangs.Bang, field Field) *rankMap {
	m := &rankMap{values: make(map[string][]ranked)}
	for _, b := range members {
		for _, v := range field(b) {
			if v == "" {
				continue
			}
			m.add(fieldKey(v), ranked{rank: b.Rank, value: v})
		}
	}
	return m
}

func (m *rankMap) add(key string, r ranked) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], r)
}

// prepend puts r ahead of the existing occurrences of key. A new key goes last.
func (m *rankMap) prepend(key string, r ranked) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append([]ranked{r}, m.values[key]...)
}

func (m *rankMap) len() int {
	return len(m.keys)
}

// representatives returns the leading original-case value of every key, in
// key order.
func (m *rankMap) representatives() []string {
	out := make([]string, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.values[key][0].value)
	}
	return out
}

// fieldKey folds a value for grouping. A leading "#" from an already
// formatted label is ignored so labels and raw tags share a key.
func fieldKey(v string) string {
	return strings.ToLower(strings.TrimPrefix(v, "#"))
}
