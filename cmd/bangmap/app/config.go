package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/bangmap/internal/cmd/application"
	"github.com/agentstation/bangmap/pkg/errors"
)

// EnvPrefix prefixes every environment variable read through viper.
const EnvPrefix = "BANGMAP"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Pipeline settings
	Settings application.Settings

	// LogLevel is the explicit --log-level flag; EnvLogLevel is LOG_LEVEL.
	// They sit on either side of -v/-q in the precedence order.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (BANGMAP_ prefix)
// 3. .env files
// 4. Config file (~/.bangmap.yaml or ./.bangmap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := newViper()

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".bangmap")

		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	return fromViper(v), nil
}

// ReadConfigFile reloads the settings from path, keeping environment
// overrides. It is used when --config is given on the command line.
func (c *Config) ReadConfigFile(path string) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError("config", "failed to read "+path, err)
	}

	loaded := fromViper(v)
	c.ConfigFile = loaded.ConfigFile
	c.Settings = loaded.Settings
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	c.LogLevel = logLevel
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	defaults := application.DefaultSettings()
	v.SetDefault("input_dir", defaults.InputDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("history_dir", defaults.HistoryDir)
	v.SetDefault("probe_concurrency", defaults.ProbeConcurrency)
	v.SetDefault("probe_timeout", defaults.ProbeTimeout)
	v.SetDefault("probe_rate", defaults.ProbeRate)
	v.SetDefault("download_timeout", defaults.DownloadTimeout)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Settings: application.Settings{
			InputDir:         v.GetString("input_dir"),
			OutputDir:        v.GetString("output_dir"),
			HistoryDir:       v.GetString("history_dir"),
			ProbeConcurrency: v.GetInt("probe_concurrency"),
			ProbeTimeout:     v.GetDuration("probe_timeout"),
			ProbeRate:        v.GetFloat64("probe_rate"),
			DownloadTimeout:  v.GetDuration("download_timeout"),
		},

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
