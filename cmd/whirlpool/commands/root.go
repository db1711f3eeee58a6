package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tobiajo/whirlpool/config"
	"github.com/tobiajo/whirlpool/node"
	"github.com/tobiajo/whirlpool/protocol"
	"github.com/tobiajo/whirlpool/transport"
)

const envPrefix = "WHIRLPOOL"

// IO carries the process streams. Out is the protocol stream; logs go to Err.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs the root command and returns the process exit status.
func Execute(streams IO) int {
	if err := NewRootCmd(streams).Execute(); err != nil {
		var perr *protocol.Error
		if errors.As(err, &perr) {
			fmt.Fprintf(streams.Err, "whirlpool: %v (%s)\n", err, perr.CodeText())
		} else {
			fmt.Fprintf(streams.Err, "whirlpool: %v\n", err)
		}
		return 1
	}
	return 0
}

func NewRootCmd(streams IO) *cobra.Command {
	v := viper.New()
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "whirlpool",
		Short:         "Single-node Maelstrom workload server",
		Long:          "Reads Maelstrom envelopes from stdin, one JSON document per line, and writes replies to stdout.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return run(cfg, streams)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Path to a toml config file")
	flags.String(config.KeyWorkload, defaults.Workload, "Workload served by add/broadcast/read: counter or log")
	flags.String(config.KeyMalformed, defaults.Malformed, "What to do with undecodable input: abort or skip")
	flags.String(config.KeyLogLevel, defaults.LogLevel, "Log level (debug, info, warn, error, fatal, panic)")
	flags.String(config.KeyLogFile, defaults.LogFile, "Also write logs as JSON to this file")
	flags.Int(config.KeyMaxLineBytes, defaults.MaxLineBytes, "Maximum size of one input line in bytes")

	return cmd
}

// loadConfig resolves settings by precedence: changed flag, WHIRLPOOL_*
// environment variable, config file, built-in default.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	v.SetDefault(config.KeyWorkload, cfg.Workload)
	v.SetDefault(config.KeyMalformed, cfg.Malformed)
	v.SetDefault(config.KeyLogLevel, cfg.LogLevel)
	v.SetDefault(config.KeyLogFile, cfg.LogFile)
	v.SetDefault(config.KeyMaxLineBytes, cfg.MaxLineBytes)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cfg config.Config, streams IO) error {
	logger, err := cfg.NewLogger(streams.Err)
	if err != nil {
		return err
	}
	kind, err := cfg.WorkloadKind()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	workload, err := node.NewWorkload(kind)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		config.KeyWorkload:     cfg.Workload,
		config.KeyMalformed:    cfg.Malformed,
		config.KeyLogLevel:     cfg.LogLevel,
		config.KeyLogFile:      cfg.LogFile,
		config.KeyMaxLineBytes: cfg.MaxLineBytes,
	}).Debug("RUN")

	n := node.NewNode(workload, node.WithLogger(logger.WithField("prefix", "node")))
	runner := transport.NewRunner(n, streams.In, streams.Out, transport.Config{
		Policy:       policy,
		MaxLineBytes: cfg.MaxLineBytes,
		Logger:       logger.WithField("prefix", "transport"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	select {
	case err = <-done:
		logger.WithFields(logrus.Fields{
			"processed": n.Stats().Total(),
			"skipped":   runner.Skipped(),
			"types":     n.Stats().String(),
		}).Info("Node stopped")
	case <-ctx.Done():
		// stdin may block indefinitely; stop without waiting for the loop.
		logger.WithFields(logrus.Fields{
			"processed": n.Stats().Total(),
			"types":     n.Stats().String(),
		}).Info("Node interrupted")
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
