// Command gradtape trains and benchmarks models on the gradtape
// reverse-mode differentiation engine.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/born-ml/gradtape/internal/config"
	"github.com/born-ml/gradtape/internal/grad"
)

const version = "v0.1.0-dev"

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

// app holds state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string

	cfg    config.Config
	logger zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gradtape",
		Short:         "Reverse-mode automatic differentiation for Go numeric code",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console or json)")

	root.AddCommand(
		newVersionCmd(),
		newOpsCmd(),
		newTrainCmd(a),
		newSimulateCmd(a),
		newBenchCmd(a),
	)
	return root
}

// init loads configuration (env > file > defaults), applies the logging
// flags and configures the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Observability.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Observability.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg.Observability)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func newLogger(cmd *cobra.Command, cfg config.ObservabilityConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	out := cmd.ErrOrStderr()
	var logger zerolog.Logger
	if cfg.LogFormat == "json" {
		logger = zerolog.New(out)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Str("service", cfg.ServiceName).Logger(), nil
}

// engine returns a gradient engine for the loaded configuration.
func (a *app) engine() *grad.Engine {
	return grad.New(grad.Config{
		Logger:      a.logger,
		MaxEntries:  a.cfg.Engine.MaxEntries,
		Parallelism: a.cfg.Engine.Parallelism,
	})
}
