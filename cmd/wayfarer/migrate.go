package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/logger"
	"github.com/xy-planning-network/wayfarer/ranger"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE:  migrate,
}

func migrate(_ *cobra.Command, _ []string) error {
	cfg, err := ranger.NewConfig()
	if err != nil {
		return err
	}

	l := ranger.NewLogger(wayfarer.CLILogKind, cfg)
	l.Info("running migrations", &logger.LogContext{Data: map[string]any{"environment": cfg.Env.String()}})
	if err := ranger.Migrate(cfg); err != nil {
		l.Error("could not run migrations", &logger.LogContext{Error: err})
		return err
	}

	l.Info("migrations complete", nil)
	return nil
}
