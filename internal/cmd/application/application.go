// Package application provides the application interface for bangmap commands.
//
// The Application interface defines the contract between the application layer
// and command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            settings := app.Settings()
//	            set, err := bangs.ReadSet(filepath.Join(settings.InputDir, bangs.SnapshotFile))
//	            // ...
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    SettingsFunc: func() application.Settings {
//	        s := application.DefaultSettings()
//	        s.InputDir = t.TempDir()
//	        return s
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/bangmap/pkg/constants"
)

// Application provides the application interface that commands need.
// The App struct from cmd/bangmap/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Settings returns the pipeline settings resolved from config files,
	// environment and defaults. Command flags override them per run.
	Settings() Settings

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Settings holds the directories and probe tuning shared by all commands.
type Settings struct {
	InputDir   string
	OutputDir  string
	HistoryDir string

	ProbeConcurrency int
	ProbeTimeout     time.Duration
	// ProbeRate caps probe requests per second across all workers; 0 disables it.
	ProbeRate float64

	DownloadTimeout time.Duration
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		InputDir:         constants.DefaultBangsDir,
		OutputDir:        constants.DefaultBangsDir,
		HistoryDir:       constants.DefaultHistoryDir,
		ProbeConcurrency: constants.MaxProbeWorkers,
		ProbeTimeout:     constants.ProbeTimeout,
		DownloadTimeout:  constants.DefaultHTTPTimeout,
	}
}
