// ABOUTME: Tests for the leveled logging package
// ABOUTME: Validates level filtering, output redirection, and level name parsing

package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// Tests in this file share global state and do not run in parallel.

func withCapture(t *testing.T, l slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut := SetOutput(&buf)
	prevLevel := GetLevel()
	SetLevel(l)
	t.Cleanup(func() {
		SetOutput(prevOut)
		SetLevel(prevLevel)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := withCapture(t, LevelInfo)

	Debug("hidden %d", 1)
	Info("shown %d", 2)
	Warn("warned %s", "x")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug emitted at info level: %q", got)
	}
	if !strings.Contains(got, "[INFO] shown 2\n") {
		t.Errorf("missing info line: %q", got)
	}
	if !strings.Contains(got, "[WARN] warned x\n") {
		t.Errorf("missing warn line: %q", got)
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	buf := withCapture(t, LevelError+8)

	Warn("quiet")
	Error("boom: %v", "disk")

	got := buf.String()
	if strings.Contains(got, "quiet") {
		t.Errorf("warn emitted above error level: %q", got)
	}
	if got != "[ERROR] boom: disk\n" {
		t.Errorf("got %q", got)
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	buf := withCapture(t, LevelDebug)

	Debug("seq %q", "\x1b[A")
	if !strings.HasPrefix(buf.String(), "[DEBUG] seq") {
		t.Errorf("got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"chatty", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
