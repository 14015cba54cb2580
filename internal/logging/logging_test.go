package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"Warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"trace", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRouting(t *testing.T) {
	var stdout, stderr, file bytes.Buffer
	log := slog.New(NewHandler(slog.LevelInfo, &stdout, &stderr, &file))

	log.Debug("hidden")
	log.Info("hello", "user_id", 7)
	log.Warn("careful")
	log.Error("broken")

	if strings.Contains(stdout.String()+stderr.String()+file.String(), "hidden") {
		t.Error("debug record should be filtered")
	}
	if !strings.Contains(stdout.String(), "hello") || !strings.Contains(stdout.String(), "careful") {
		t.Errorf("stdout missing info/warn: %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "broken") {
		t.Error("error record leaked to stdout")
	}
	if !strings.Contains(stderr.String(), "broken") || strings.Contains(stderr.String(), "hello") {
		t.Errorf("stderr should only hold errors: %q", stderr.String())
	}
	for _, want := range []string{"hello", "careful", "broken", "user_id=7"} {
		if !strings.Contains(file.String(), want) {
			t.Errorf("file missing %q: %q", want, file.String())
		}
	}
	if strings.Contains(stdout.String(), "\x1b[") {
		t.Error("buffers are not terminals and must not get color codes")
	}
}

func TestWithAttrsAndGroup(t *testing.T) {
	var stdout, stderr, file bytes.Buffer
	log := slog.New(NewHandler(slog.LevelDebug, &stdout, &stderr, &file)).
		With("request_id", "abc").
		WithGroup("http")

	log.Debug("served", "status", 200)

	if !strings.Contains(stdout.String(), "request_id=abc") {
		t.Errorf("attrs lost on stdout: %q", stdout.String())
	}
	if !strings.Contains(file.String(), "http.status=200") {
		t.Errorf("group lost in file: %q", file.String())
	}
}

func TestSetupWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "shareit.log")
	cleanup, err := Setup(slog.LevelInfo, path)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("to the file")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "to the file") {
		t.Errorf("log file content %q", data)
	}
}
