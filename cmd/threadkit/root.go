package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by subcommands once the root command has loaded
// the configuration.
type app struct {
	cfg    Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "threadkit",
		Short:         "Exercise the threadkit thread pool with verifiable workloads",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}

			a.cfg = cfg
			a.logger = logger
			logger.Debug("configuration loaded", zap.Any("config", cfg))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	registerFlags(root.PersistentFlags())
	root.AddCommand(newSumCommand(a), newPriorityCommand(a))
	return root
}
