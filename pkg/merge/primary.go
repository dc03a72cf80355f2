package merge

import (
	"context"

	"github.com/agnivade/levenshtein"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/logging"
	"github.com/agentstation/bangmap/pkg/normalize"
)

// Entry is what the primary source knows about one trigger.
type Entry struct {
	Tier int
	URL  string
	// NormalizedURL is set only when normalization changed URL.
	NormalizedURL string
}

// Primary maps a bare trigger (without "!") to its primary-source entry.
type Primary map[string]Entry

// NewPrimary builds the trigger map from the primary source records. A later
// record with the same trigger replaces an earlier one.
func NewPrimary(raw []bangs.RawBang) Primary {
	primary := make(Primary, len(raw))
	for _, b := range raw {
		entry := Entry{Tier: b.Tier, URL: b.URL}
		if n := normalize.URL(b.URL, normalize.WithStripWWW()); n != b.URL {
			entry.NormalizedURL = n
		}
		primary[b.Trigger] = entry
	}
	return primary
}

// host returns the comparable host of the entry's URL.
func (e Entry) host() string {
	n := e.NormalizedURL
	if n == "" {
		n = e.URL
	}
	return normalize.Domain(n)
}

// Tier resolves the tier of a secondary record. Triggers unknown to the
// primary source get the lowest tier. Known triggers inherit the primary
// tier unless both sources point the trigger at clearly unrelated hosts, in
// which case the record is downgraded and the second result is true.
func (p Primary) Tier(ctx context.Context, raw bangs.RawBang) (int, bool) {
	entry, ok := p[raw.Trigger]
	if !ok {
		return constants.LowestTier, false
	}

	primaryHost := entry.host()
	secondaryHost := normalize.Domain(normalize.URL(raw.URL, normalize.WithStripWWW()))

	if !Disagree(primaryHost, secondaryHost, entry.Tier) {
		return entry.Tier, false
	}

	logging.FromContext(ctx).Debug().
		Str("trigger", raw.Trigger).
		Int("ddgr", entry.Tier).
		Str("primary_host", primaryHost).
		Str("secondary_host", secondaryHost).
		Float64("distance", HostDistance(primaryHost, secondaryHost)).
		Str("primary_url", entry.URL).
		Str("secondary_url", raw.URL).
		Msg("Sources disagree on trigger domain")

	return constants.DisagreementTier, true
}

// Disagree reports whether two sources giving the same trigger point it at
// unrelated hosts: the hosts differ, neither is the provider sentinel, the
// primary tier is above the lowest tier, and the normalized edit distance
// exceeds constants.DomainDistanceThreshold.
func Disagree(primaryHost, secondaryHost string, primaryTier int) bool {
	if primaryHost == secondaryHost {
		return false
	}
	if primaryHost == constants.ProviderHost || secondaryHost == constants.ProviderHost {
		return false
	}
	if primaryTier <= constants.LowestTier {
		return false
	}
	return HostDistance(primaryHost, secondaryHost) > constants.DomainDistanceThreshold
}

// HostDistance is the edit distance between two hosts divided by the length
// of the secondary host. An empty secondary host yields +Inf (or NaN when
// both are empty).
func HostDistance(primaryHost, secondaryHost string) float64 {
	d := levenshtein.ComputeDistance(primaryHost, secondaryHost)
	return float64(d) / float64(len(secondaryHost))
}
