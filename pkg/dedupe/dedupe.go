// Package dedupe collapses canonical bangs that point at the same target into
// a single record.
//
// Records are grouped by their normalized URL template. Each group becomes one
// record whose fields are chosen from the members by fixed tie-break rules, so
// the output depends only on the input order and never on map iteration.
// Running the engine on its own output is a no-op.
package dedupe

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/logging"
	"github.com/agentstation/bangmap/pkg/normalize"
	"github.com/agentstation/bangmap/pkg/rank"
)

// AliasPrefix labels a tag synthesized from a member name that lost the
// name tie-break.
const AliasPrefix = "AKA/"

// aliasRank sorts synthesized aliases ahead of any collected value.
const aliasRank = -1

// Result is the outcome of a deduplication.
type Result struct {
	// Bangs holds one record per distinct normalized URL, ordered by tier
	// with ranks assigned.
	Bangs bangs.Set
	// Tally counts the output records per tier.
	Tally rank.Tally
	// Collapsed is the number of input records merged into another record.
	Collapsed int
	// Skipped counts input records dropped for having no trigger.
	Skipped int
}

// group is the members sharing one grouping key, in input order.
type group struct {
	key     string
	members []bangs.Bang
}

// Deduplicate groups set by normalized URL and collapses every group into one
// record. The input is not modified.
func Deduplicate(ctx context.Context, set bangs.Set) Result {
	logger := logging.FromContext(ctx)
	result := Result{Tally: rank.NewTally()}

	groups, skipped := groupByURL(ctx, set)
	result.Skipped = skipped

	merged := make(bangs.Set, 0, len(groups))
	for _, g := range groups {
		b := collapse(g.members)
		result.Tally.Add(b.DDGR)
		merged = append(merged, b)
	}
	result.Collapsed = len(set) - skipped - len(merged)

	logger.Info().
		Int("input", len(set)).
		Int("output", len(merged)).
		Int("collapsed", result.Collapsed).
		Msg("Deduplicated bangs")

	result.Bangs = rank.Apply(merged, result.Tally)
	return result
}

// groupByURL partitions set by normalized URL template. Groups are returned in
// order of their first member.
func groupByURL(ctx context.Context, set bangs.Set) ([]*group, int) {
	logger := logging.FromContext(ctx)

	var (
		order   []*group
		byKey   = make(map[string]*group)
		skipped int
	)
	for _, b := range set {
		if !b.Valid() {
			logger.Warn().Str("url", b.URLs.S).Str("name", b.Name).Msg("Skipping bang without trigger")
			skipped++
			continue
		}

		key, err := normalize.Key(b.URLs.S)
		if err != nil {
			logger.Warn().Err(err).Str("url", b.URLs.S).Msg("Could not normalize URL, grouping by raw form")
		}

		g, ok := byKey[key]
		if !ok {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, g)
		}
		g.members = append(g.members, b)
	}
	return order, skipped
}

// collapse derives the single record representing members.
func collapse(members []bangs.Bang) bangs.Bang {
	name := pickName(members)

	return bangs.Bang{
		Code: triggers(members),
		Rank: -1,
		DDGR: maxTier(members),
		Name: name,
		Tags: labels(members, name),
		URLs: bangs.URLs{S: pickURL(members)},
	}
}

func maxTier(members []bangs.Bang) int {
	best := members[0].DDGR
	for _, m := range members[1:] {
		best = max(best, m.DDGR)
	}
	return best
}

// pickName returns the name of the highest-tier member, preferring the longer
// name within a tier.
func pickName(members []bangs.Bang) string {
	return first(members, func(a, b bangs.Bang) bool {
		if a.DDGR != b.DDGR {
			return a.DDGR > b.DDGR
		}
		return length(a.Name) > length(b.Name)
	}).Name
}

// pickURL returns the best member URL: https before anything else, then the
// shortest.
func pickURL(members []bangs.Bang) string {
	return first(members, func(a, b bangs.Bang) bool {
		as, bs := isHTTPS(a.URLs.S), isHTTPS(b.URLs.S)
		if as != bs {
			return as
		}
		return length(a.URLs.S) < length(b.URLs.S)
	}).URLs.S
}

// triggers lists the shortest primary trigger, then the longest, then every
// trigger of every member in order, without duplicates. Ties on length go to
// the higher tier.
func triggers(members []bangs.Bang) []string {
	short := first(members, func(a, b bangs.Bang) bool {
		if la, lb := length(a.Trigger()), length(b.Trigger()); la != lb {
			return la < lb
		}
		return a.DDGR > b.DDGR
	}).Trigger()

	long := first(members, func(a, b bangs.Bang) bool {
		if la, lb := length(a.Trigger()), length(b.Trigger()); la != lb {
			return la > lb
		}
		return a.DDGR > b.DDGR
	}).Trigger()

	all := []string{short, long}
	for _, m := range members {
		all = append(all, m.Code...)
	}
	return uniq(all)
}

// labels builds the tag list: one "#label" per distinct tag, followed by an
// alias tag for every distinct member name other than the chosen one. Names
// are distinct when they differ ignoring case.
func labels(members []bangs.Bang, name string) []string {
	tags := collect(members, tagsOf)

	for _, summary := range collect(members, nameOf).representatives() {
		if strings.EqualFold(summary, name) {
			continue
		}
		alias := AliasPrefix + summary
		tags.prepend(fieldKey(alias), ranked{rank: aliasRank, value: alias})
	}

	out := make([]string, 0, tags.len())
	for _, value := range tags.representatives() {
		out = append(out, formatLabel(value))
	}
	return out
}

// formatLabel renders a tag value as a "#" label with spaces as hyphens.
func formatLabel(value string) string {
	return "#" + strings.ReplaceAll(strings.TrimPrefix(value, "#"), " ", "-")
}

// first returns the first member under less, keeping input order among ties.
func first(members []bangs.Bang, less func(a, b bangs.Bang) bool) bangs.Bang {
	sorted := make([]bangs.Bang, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted[0]
}

func uniq(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func isHTTPS(u string) bool {
	return strings.HasPrefix(u, "https")
}

// length counts characters, not bytes.
func length(s string) int {
	return utf8.RuneCountInString(s)
}
