package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/agentstation/bangmap/pkg/constants"
)

// Config describes how the pipeline logger is built.
type Config struct {
	// Level is the minimum level written. Unknown values mean info.
	Level string

	// Format is json, console or auto. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path. Files are appended to.
	Output string

	// TimeFormat is a name (kitchen, rfc3339, rfc3339nano, unix) or a Go layout.
	TimeFormat string

	NoColor   bool
	AddCaller bool

	// Fields are attached to every event.
	Fields map[string]any
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger from cfg. A nil cfg means DefaultConfig.
// It also sets the zerolog global level.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(writerFor(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	if len(cfg.Fields) > 0 {
		ctx = ctx.Fields(cfg.Fields)
	}
	return ctx.Logger()
}

// Configure replaces the default logger.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

func writerFor(cfg *Config) io.Writer {
	out, terminal := outputFor(cfg.Output)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if terminal {
			format = "console"
		}
	}
	if format != "console" && format != "pretty" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: parseTimeFormat(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// outputFor opens the destination named by output and reports whether it is
// a terminal. A file that cannot be opened falls back to stderr.
func outputFor(output string) (io.Writer, bool) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, isTerminal(os.Stderr)
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout)
	case "discard", "none":
		return io.Discard, false
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr, isTerminal(os.Stderr)
	}
	return f, false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

func parseTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "kitchen", "":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}

// addField attaches value under key with the most specific zerolog type.
func addField(ctx zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return ctx.Str(key, v)
	case int:
		return ctx.Int(key, v)
	case bool:
		return ctx.Bool(key, v)
	case error:
		return ctx.AnErr(key, v)
	default:
		return ctx.Interface(key, v)
	}
}
