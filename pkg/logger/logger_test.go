package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level string) (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(level, &buf)
	l.now = func() time.Time { return time.Date(2024, 6, 14, 10, 30, 0, 0, time.UTC) }
	return l, &buf
}

func TestAppLogger_FiltersByLevel(t *testing.T) {
	l, buf := newTestLogger("warn")

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Fatalf("expected warn message, got %q", out)
	}
}

func TestAppLogger_Format(t *testing.T) {
	l, buf := newTestLogger("debug")

	l.Error("ocr failed", errors.New("timeout"), "provider", "ocrspace", "dangling")

	got := strings.TrimSpace(buf.String())
	want := "[2024-06-14 10:30:00] ERROR: ocr failed error=timeout provider=ocrspace"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
