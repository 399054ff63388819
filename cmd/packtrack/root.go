package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"packtrack/internal/config"
	apierrors "packtrack/internal/errors"
	"packtrack/internal/infrastructure"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Packing duration and classification for warehouse scan logs",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: config.yaml or configs/config.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newProcessCmd(opts),
		newSuggestCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// loadConfig applies the --config and --log-level flags
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apierrors.NewConfigError("load config", err)
	}

	if o.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.logLevel)
	}
	return cfg, nil
}

// commandLogger logs to stderr so that stdout carries only command output.
// A file output from the configuration is honored as well.
func commandLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	if strings.EqualFold(cfg.Logging.Output, "console") {
		return infrastructure.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level), nil
	}
	return infrastructure.InitializeLogger(cfg.Logging)
}
