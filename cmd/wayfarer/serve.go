package main

import (
	"github.com/spf13/cobra"
	"github.com/xy-planning-network/wayfarer/ranger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server until interrupted",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := ranger.NewConfig()
	if err != nil {
		return err
	}

	rng, err := ranger.New(cfg, ranger.WithContext(cmd.Context()))
	if err != nil {
		return err
	}

	return rng.Guide()
}
