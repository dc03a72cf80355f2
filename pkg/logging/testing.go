package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger is a logger writing JSON lines into Buffer.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a trace-level logger capturing into memory. The global
// level is lowered for the test and restored on cleanup.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()

	level := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(level) })

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Output returns everything logged so far.
func (tl *TestLogger) Output() string {
	return tl.Buffer.String()
}

// Count returns the number of events logged.
func (tl *TestLogger) Count() int {
	out := strings.TrimSpace(tl.Output())
	if out == "" {
		return 0
	}
	return strings.Count(out, "\n") + 1
}

// ContainsAll reports whether the output contains every substring.
func (tl *TestLogger) ContainsAll(substrs ...string) bool {
	out := tl.Output()
	for _, s := range substrs {
		if !strings.Contains(out, s) {
			return false
		}
	}
	return true
}

// AssertContains fails t when the output lacks substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Output(), substr) {
		t.Errorf("log output does not contain %q\noutput:\n%s", substr, tl.Output())
	}
}

// AssertNotContains fails t when the output has substr.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if strings.Contains(tl.Output(), substr) {
		t.Errorf("log output should not contain %q\noutput:\n%s", substr, tl.Output())
	}
}

// DisableLoggingForTest silences the default logger until the test ends.
func DisableLoggingForTest(t testing.TB) {
	t.Helper()
	swapDefault(t, zerolog.Nop())
}

// CaptureLoggingForTest routes the default logger into a TestLogger until the
// test ends.
func CaptureLoggingForTest(t testing.TB) *TestLogger {
	t.Helper()
	tl := NewTestLogger(t)
	swapDefault(t, *tl.Logger)
	return tl
}

func swapDefault(t testing.TB, logger zerolog.Logger) {
	original := *Default()
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(original) })
}
