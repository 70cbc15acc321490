package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw     string
		want    Level
		wantErr bool
	}{
		{raw: "debug", want: LevelDebug},
		{raw: "", want: LevelInfo},
		{raw: " WARN ", want: LevelWarn},
		{raw: "warning", want: LevelWarn},
		{raw: "error", want: LevelError},
		{raw: "verbose", want: LevelInfo, wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseLevel(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseLevel(%q) error=%v wantErr=%v", tc.raw, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNewJSON_WritesStructuredEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(LevelInfo, WithOutput(&buf), WithFields("service", "challenge-league"))

	logger.Debug("hidden")
	logger.With("component", "test").InfoContext(context.Background(), "request challenge", "username", "alice", "error", errors.New("boom"))
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry above debug level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "request challenge" || entry["username"] != "alice" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["service"] != "challenge-league" || entry["component"] != "test" {
		t.Fatalf("expected base and scoped fields: %v", entry)
	}
	if entry["error"] != "boom" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.WarnContext(context.Background(), "still no panic")
}
