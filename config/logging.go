package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// ParseLogLevel accepts debug, info, warn, error, fatal and panic.
func ParseLogLevel(l string) (logrus.Level, error) {
	level, err := logrus.ParseLevel(strings.TrimSpace(l))
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q", l)
	}
	return level, nil
}

// NewLogger builds the process logger. out must not be the protocol
// stream; the entry point passes stderr. LogFile, when set, receives a JSON
// copy of every entry.
func (c Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.Out = out
	logger.Level = level
	logger.Formatter = &prefixed.TextFormatter{
		FullTimestamp: true,
	}
	if c.LogFile != "" {
		logger.Hooks.Add(lfshook.NewHook(c.LogFile, &logrus.JSONFormatter{}))
	}
	return logger, nil
}
