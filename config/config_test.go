package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tobiajo/whirlpool/node"
	"github.com/tobiajo/whirlpool/transport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whirlpool.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if kind, _ := cfg.WorkloadKind(); kind != node.Log {
		t.Errorf("workload = %s, want %s", kind, node.Log)
	}
	if policy, _ := cfg.Policy(); policy != transport.Abort {
		t.Errorf("policy = %s, want %s", policy, transport.Abort)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
workload = "counter"
malformed = " skip "
max_line_bytes = 4096
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := DefaultConfig()
	want.Workload = "counter"
	want.Malformed = "skip"
	want.MaxLineBytes = 4096
	if cfg != want {
		t.Errorf("Load = %+v, want %+v", cfg, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `workload = `, "load config"},
		{"unknown key", `workers = 4`, "unknown keys"},
		{"wrong type", `max_line_bytes = "big"`, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"workload", func(c *Config) { c.Workload = "kafka" }},
		{"malformed", func(c *Config) { c.Malformed = "retry" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"line limit", func(c *Config) { c.MaxLineBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate(%+v) = nil, want error", cfg)
			}
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFile = filepath.Join(t.TempDir(), "node.log")

	var out bytes.Buffer
	logger, err := cfg.NewLogger(&out)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if logger.Level != logrus.WarnLevel {
		t.Errorf("level = %s, want warn", logger.Level)
	}

	logger.WithField("prefix", "node").Info("hidden")
	logger.WithField("prefix", "node").Warn("visible")

	if strings.Contains(out.String(), "hidden") || !strings.Contains(out.String(), "visible") {
		t.Errorf("log output = %q", out.String())
	}
	file, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(file), `"msg":"visible"`) {
		t.Errorf("log file = %q, want JSON entry", file)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, tt := range []struct {
		input   string
		want    logrus.Level
		wantErr bool
	}{
		{input: "debug", want: logrus.DebugLevel},
		{input: " info", want: logrus.InfoLevel},
		{input: "warning", want: logrus.WarnLevel},
		{input: "verbose", want: logrus.InfoLevel, wantErr: true},
	} {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
