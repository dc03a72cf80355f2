// Package rank turns popularity tiers (ddgr) into a competition ranking:
// every record in a tier shares one rank, and the next lower tier starts
// after all records placed above it.
package rank

import (
	"slices"
	"sort"

	"github.com/agentstation/bangmap/pkg/bangs"
)

// Tally counts records per tier. The zero value is not usable; use NewTally.
type Tally map[int]int

// NewTally returns an empty tally.
func NewTally() Tally {
	return make(Tally)
}

// Add counts one record in tier.
func (t Tally) Add(tier int) {
	t[tier]++
}

// Count returns the number of records counted in tier.
func (t Tally) Count(tier int) int {
	return t[tier]
}

// Total returns the number of records counted across all tiers.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Tiers returns the counted tiers from most to least popular.
func (t Tally) Tiers() []int {
	tiers := make([]int, 0, len(t))
	for tier := range t {
		tiers = append(tiers, tier)
	}
	slices.SortFunc(tiers, func(a, b int) int { return b - a })
	return tiers
}

// Assign maps each tier to its rank. Tiers are visited from highest to
// lowest; the first gets rank 1 and each following tier gets one plus the
// number of records in all tiers above it.
func Assign(t Tally) map[int]int {
	ranks := make(map[int]int, len(t))
	next := 1
	for _, tier := range t.Tiers() {
		ranks[tier] = next
		next += t[tier]
	}
	return ranks
}

// Apply returns a copy of set ordered by tier, most popular first, with each
// record's Rank taken from the tally. Records within a tier keep their input
// order.
func Apply(set bangs.Set, t Tally) bangs.Set {
	ranks := Assign(t)

	out := set.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DDGR > out[j].DDGR
	})
	for i := range out {
		out[i].Rank = ranks[out[i].DDGR]
	}
	return out
}
