package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/bangmap/internal/cmd/application"
)

// isolate keeps LoadConfig away from the developer's home and .env files.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

// TestLoadConfig verifies the defaults.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Settings != application.DefaultSettings() {
		t.Errorf("Settings = %+v, want %+v", config.Settings, application.DefaultSettings())
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty so -v/-q can apply", config.LogLevel)
	}
}

// TestConfig_EnvironmentVariables verifies prefixed environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("BANGMAP_INPUT_DIR", "raw")
	t.Setenv("BANGMAP_PROBE_CONCURRENCY", "4")
	t.Setenv("BANGMAP_PROBE_TIMEOUT", "3s")
	t.Setenv("BANGMAP_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Settings.InputDir != "raw" {
		t.Errorf("InputDir = %q, want raw", config.Settings.InputDir)
	}
	if config.Settings.OutputDir != "bangs" {
		t.Errorf("OutputDir = %q, want bangs", config.Settings.OutputDir)
	}
	if config.Settings.ProbeConcurrency != 4 {
		t.Errorf("ProbeConcurrency = %d, want 4", config.Settings.ProbeConcurrency)
	}
	if config.Settings.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v, want 3s", config.Settings.ProbeTimeout)
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, want json", config.Format)
	}
	if config.EnvLogLevel != "debug" {
		t.Errorf("EnvLogLevel = %q, want debug", config.EnvLogLevel)
	}
}

// TestConfig_File verifies loading an explicit config file.
func TestConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bangmap.yaml")
	content := "output_dir: out\nhistory_dir: hist\nprobe_rate: 2.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BANGMAP_CONFIG", path)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if config.Settings.OutputDir != "out" || config.Settings.HistoryDir != "hist" {
		t.Errorf("dirs = %q, %q, want out, hist", config.Settings.OutputDir, config.Settings.HistoryDir)
	}
	if config.Settings.ProbeRate != 2.5 {
		t.Errorf("ProbeRate = %v, want 2.5", config.Settings.ProbeRate)
	}
}

// TestConfig_MissingFile verifies an explicit config file must exist.
func TestConfig_MissingFile(t *testing.T) {
	isolate(t)
	t.Setenv("BANGMAP_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() succeeded with a missing config file")
	}
}

// TestConfig_DotEnv verifies .env files are loaded from the working directory.
func TestConfig_DotEnv(t *testing.T) {
	isolate(t)
	t.Setenv("BANGMAP_HISTORY_DIR", "")
	os.Unsetenv("BANGMAP_HISTORY_DIR")
	if err := os.WriteFile(".env", []byte("BANGMAP_HISTORY_DIR=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Settings.HistoryDir != "from-dotenv" {
		t.Errorf("HistoryDir = %q, want from-dotenv", config.Settings.HistoryDir)
	}
}

// TestConfig_UpdateFromFlags verifies flag values override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json"}

	config.UpdateFromFlags(true, false, true, "", "error")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "json" {
		t.Errorf("empty format flag replaced Format: %q", config.Format)
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", config.LogLevel)
	}

	config.UpdateFromFlags(false, false, false, "yaml", "")
	if config.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", config.Format)
	}
}
