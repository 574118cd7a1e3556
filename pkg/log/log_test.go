package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestMapLevelToZapLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected string
	}{
		{"debug level", LevelDebug, "debug"},
		{"info level", LevelInfo, "info"},
		{"progress level", LevelProgress, "info"},
		{"warn level", LevelWarn, "warn"},
		{"error level", LevelError, "error"},
		{"unknown level defaults to info", LogLevel("unknown"), "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapLevelToZapLevel(tt.level).String(); got != tt.expected {
				t.Errorf("mapLevelToZapLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{" WARN ", LevelWarn},
		{"error", LevelError},
		{"", LevelProgress},
		{"verbose", LevelProgress},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != LevelProgress {
		t.Errorf("DefaultConfig().Level = %v, want %v", cfg.Level, LevelProgress)
	}
	if cfg.Output == nil {
		t.Error("DefaultConfig().Output is nil")
	}
}

func TestLevelFiltering(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	if err := Init(Config{Level: LevelProgress, Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Debug("hidden debug", "key", "value")
	Progress("visible progress", "dir", "/tmp/dist")
	Warn("visible warning")
	_ = Sync()

	out := buf.String()
	if strings.Contains(out, "hidden debug") {
		t.Errorf("debug message leaked at progress level: %q", out)
	}
	for _, want := range []string{"visible progress", "dir", "/tmp/dist", "visible warning", "WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDebugLevelEmitsEverything(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	if err := Init(Config{Level: LevelDebug, Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Debug("probe", "path", "dist")
	Info("info line")
	Error("error line")
	_ = Sync()

	out := buf.String()
	for _, want := range []string{"DEBUG", "probe", "info line", "ERROR", "error line"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestGetInitializesDefaultLogger(t *testing.T) {
	Reset()
	defer Reset()

	logger := Get()
	if logger == nil {
		t.Fatal("Get() returned nil logger")
	}
	if logger != Get() {
		t.Error("Get() returned different logger instances")
	}
}

func TestWith(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	if err := Init(Config{Level: LevelDebug, Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	With("remote", "origin").Infow("scoped")
	_ = Sync()

	if out := buf.String(); !strings.Contains(out, "origin") || !strings.Contains(out, "scoped") {
		t.Errorf("With() fields missing from output %q", out)
	}
}
