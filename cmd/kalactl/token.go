package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kalasahayak/internal/platform/crypto"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for the admin routes, signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			tok, jti, err := crypto.GenerateToken(secret, subject, role, ttl)
			if err != nil {
				return fmt.Errorf("minting token: %w", err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{"token": tok, "jti": jti})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", envOr("USER", "operator"), "token subject")
	cmd.Flags().StringVar(&role, "role", crypto.RoleAdmin, "token role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
