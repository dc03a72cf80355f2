// Package app provides the application context and dependency management
// for the bangmap CLI. It centralizes configuration, logging and build
// information, and hands commands a narrow application.Application view.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/errors"
)

// App represents the bangmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config

	mu     sync.RWMutex
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment and
// can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Settings returns the pipeline settings.
func (a *App) Settings() application.Settings {
	return a.config.Settings
}

func (a *App) setLogger(logger zerolog.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = &logger
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
