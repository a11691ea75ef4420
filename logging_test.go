package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown", "cell", "B3")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "B3") {
		t.Errorf("info line missing: %s", out)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON output, got %s", out)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"", "text", "json", "logfmt"} {
		if _, err := NewLogger(LogConfig{Level: "debug", Format: format}, &bytes.Buffer{}); err != nil {
			t.Errorf("format %q: %v", format, err)
		}
	}
}

func TestNewLoggerRejectsBadConfig(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "shout", Format: "text"}, &bytes.Buffer{}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("bad level error = %v", err)
	}
	if _, err := NewLogger(LogConfig{Level: "info", Format: "yaml"}, &bytes.Buffer{}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("bad format error = %v", err)
	}
}
