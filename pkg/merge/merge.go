// Package merge combines the per-provider bang files into one canonical record
// set. Every record is assigned a popularity tier (ddgr) by cross-referencing
// the primary (DuckDuckGo) source's trigger map, and the merged set is ranked
// by tier.
package merge

import (
	"context"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/logging"
	"github.com/agentstation/bangmap/pkg/normalize"
	"github.com/agentstation/bangmap/pkg/rank"
)

// Source is one secondary provider file.
type Source struct {
	Name  string
	Bangs []bangs.RawBang
}

// Result is the outcome of a merge.
type Result struct {
	// Bangs is the merged set, ordered by tier with ranks assigned.
	Bangs bangs.Set
	// Tally counts the merged records per tier.
	Tally rank.Tally
	// Downgraded counts records whose tier was lowered because the primary
	// and secondary sources disagree about the trigger's domain.
	Downgraded int
	// Skipped counts raw records dropped for having no trigger.
	Skipped int
}

// Merger merges secondary sources against a primary trigger map.
type Merger struct {
	primary Primary
}

// New creates a merger for the given primary trigger map.
func New(primary Primary) *Merger {
	return &Merger{primary: primary}
}

// Merge derives a canonical record for every raw record of every source, in
// source order, and ranks the result.
func (m *Merger) Merge(ctx context.Context, sources ...Source) Result {
	result := Result{Tally: rank.NewTally()}
	var merged bangs.Set

	for _, source := range sources {
		srcCtx := logging.WithSource(ctx, source.Name)
		logger := logging.FromContext(srcCtx)
		logger.Debug().Int("records", len(source.Bangs)).Msg("Merging source")

		for _, raw := range source.Bangs {
			if raw.Trigger == "" {
				logger.Warn().Str("url", raw.URL).Msg("Skipping bang without trigger")
				result.Skipped++
				continue
			}

			bang, downgraded := m.derive(srcCtx, raw)
			if downgraded {
				result.Downgraded++
			}
			result.Tally.Add(bang.DDGR)
			merged = append(merged, bang)
		}
	}

	result.Bangs = rank.Apply(merged, result.Tally)
	return result
}

// derive builds the canonical record for one raw secondary record.
func (m *Merger) derive(ctx context.Context, raw bangs.RawBang) (bangs.Bang, bool) {
	if !raw.HasQuery() {
		logging.FromContext(ctx).Warn().
			Str("trigger", raw.Trigger).
			Str("url", raw.URL).
			Msg("No query placeholder")
	}

	tier, downgraded := m.primary.Tier(ctx, raw)

	return bangs.Bang{
		Code: []string{"!" + raw.Trigger},
		Rank: -1,
		DDGR: tier,
		Name: raw.Name,
		Tags: raw.Tags(),
		URLs: bangs.URLs{S: normalize.URL(raw.URL, normalize.WithKeepCase())},
	}, downgraded
}
