package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/handiism/jimeng-imagegen/internal/generate"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestLogEvent_Levels(t *testing.T) {
	tests := []struct {
		level     generate.ProgressLevel
		wantLevel string
		success   bool
	}{
		{generate.LevelInfo, "info", false},
		{generate.LevelVerbose, "debug", false},
		{generate.LevelWarning, "warn", false},
		{generate.LevelError, "error", false},
		{generate.LevelSuccess, "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: "debug", Format: "json", Out: &buf})

			LogEvent(logger, generate.Event{
				Time:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				RunID:   "run-1",
				State:   generate.StatePolling,
				Level:   tt.level,
				Message: "hello",
			})

			lines := decodeLines(t, &buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines", len(lines))
			}
			got := lines[0]
			if got["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", got["level"], tt.wantLevel)
			}
			if got["run_id"] != "run-1" || got["state"] != "polling" || got["message"] != "hello" {
				t.Errorf("fields = %v", got)
			}
			if _, ok := got["success"]; ok != tt.success {
				t.Errorf("success field present = %v, want %v", ok, tt.success)
			}
		})
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Out: &buf})

	LogEvent(logger, generate.Event{Level: generate.LevelInfo, Message: "dropped"})
	LogEvent(logger, generate.Event{Level: generate.LevelError, Message: "kept"})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "kept" {
		t.Errorf("lines = %v", lines)
	}
}

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "nonsense", Out: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at default level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info line missing")
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("default format is not console")
	}
}

func TestRedact(t *testing.T) {
	tests := map[string]string{
		"":                 "***",
		"short":            "***",
		"AKLTabcdefghijkl": "AKLT...kl",
	}
	for in, want := range tests {
		if got := Redact(in); got != want {
			t.Errorf("Redact(%q) = %q, want %q", in, got, want)
		}
	}
}
