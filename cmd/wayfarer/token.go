package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xy-planning-network/wayfarer/ranger"
)

const defaultTokenTTL = 15 * time.Minute

var tokenTTL time.Duration

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", defaultTokenTTL, "how long the link works for")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Print a link signing in the user with email",
	Args:  cobra.ExactArgs(1),
	RunE:  token,
}

func token(cmd *cobra.Command, args []string) error {
	cfg, err := ranger.NewConfig()
	if err != nil {
		return err
	}

	link, err := ranger.LoginLink(cfg, args[0], tokenTTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}
