// Package constants provides shared constants used throughout the bangmap codebase.
// This includes timeouts, limits, file permissions, and the conventional
// directory layout that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for downloading provider files
	DefaultHTTPTimeout = 30 * time.Second

	// ProbeTimeout is the bounded timeout of a single liveness probe
	ProbeTimeout = 10 * time.Second

	// ShutdownTimeout is how long the CLI waits for cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxProbeWorkers is the upper bound of concurrent liveness probes
	MaxProbeWorkers = 16

	// MaxUnescapeRounds caps the repeated unescaping of URL templates
	MaxUnescapeRounds = 16

	// ProgressInterval is how many completed probes pass between progress logs
	ProgressInterval = 10
)

// Tier constants describe the popularity tiers (ddgr) assigned by the merge stage
const (
	// LowestTier is assigned to bangs whose trigger is unknown to the primary source
	LowestTier = 1

	// DisagreementTier is assigned when the primary and secondary sources point
	// the same trigger at unrelated hosts
	DisagreementTier = 2

	// DomainDistanceThreshold is the normalized host edit distance above which
	// two sources are considered to disagree
	DomainDistanceThreshold = 0.7
)

// Directory and host conventions
const (
	// DefaultBangsDir is the default input and output directory
	DefaultBangsDir = "bangs"

	// DefaultHistoryDir is the root of the before/after snapshots
	DefaultHistoryDir = "bangs.history"

	// ProviderOrigin is prefixed to relative provider links
	ProviderOrigin = "http://bang-provider"

	// ProviderHost is the host of ProviderOrigin; URLs on it are never probed
	ProviderHost = "bang-provider"

	// ProbeTerm is substituted for the placeholder when probing a bang URL
	ProbeTerm = "test"
)
