package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kalasahayak/internal/auth"
)

func newHashPasswordCmd() *cobra.Command {
	var name, role string
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print an OPERATORS entry for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")
			if err := auth.ValidatePasswordStrength(password); err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s:%s\n", name, role, hash)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "admin", "operator name")
	cmd.Flags().StringVar(&role, "role", "ADMIN", "operator role")
	return cmd
}
