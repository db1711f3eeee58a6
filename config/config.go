package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tobiajo/whirlpool/node"
	"github.com/tobiajo/whirlpool/transport"
)

// Config keys, shared by the toml file, flags and WHIRLPOOL_* variables.
const (
	KeyWorkload     = "workload"
	KeyMalformed    = "malformed"
	KeyLogLevel     = "log"
	KeyLogFile      = "log-file"
	KeyMaxLineBytes = "max-line-bytes"
)

type Config struct {
	Workload     string `mapstructure:"workload"`
	Malformed    string `mapstructure:"malformed"`
	LogLevel     string `mapstructure:"log"`
	LogFile      string `mapstructure:"log-file"`
	MaxLineBytes int    `mapstructure:"max-line-bytes"`
}

func DefaultConfig() Config {
	return Config{
		Workload:     string(node.Log),
		Malformed:    string(transport.Abort),
		LogLevel:     "info",
		LogFile:      "",
		MaxLineBytes: transport.DefaultMaxLineBytes,
	}
}

type fileConfig struct {
	Workload     string `toml:"workload"`
	Malformed    string `toml:"malformed"`
	LogLevel     string `toml:"log_level"`
	LogFile      string `toml:"log_file"`
	MaxLineBytes int    `toml:"max_line_bytes"`
}

// Load overlays the keys defined in the toml file at path onto the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown keys %v", undecoded)
	}

	if meta.IsDefined("workload") {
		cfg.Workload = strings.TrimSpace(raw.Workload)
	}
	if meta.IsDefined("malformed") {
		cfg.Malformed = strings.TrimSpace(raw.Malformed)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_file") {
		cfg.LogFile = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("max_line_bytes") {
		cfg.MaxLineBytes = raw.MaxLineBytes
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.WorkloadKind(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxLineBytes <= 0 {
		return fmt.Errorf("max line bytes must be positive, got %d", c.MaxLineBytes)
	}
	return nil
}

func (c Config) WorkloadKind() (node.Kind, error) {
	return node.ParseKind(c.Workload)
}

func (c Config) Policy() (transport.MalformedPolicy, error) {
	return transport.ParsePolicy(c.Malformed)
}
