package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kalasahayak/internal/platform/kalaapi"
)

func newHealthCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of the Kala Sahayak service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			client := kalaapi.NewClient(baseURL, envOr("KALA_USER_AGENT", "kalactl/1.0"), 5, 0)
			status, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("checking health: %w", err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Service: %s\nLLM: %t\nTwilio: %t\nActive sessions: %d\n",
				status.Service, status.LLMInitialized, status.TwilioInitialized, status.ActiveSessions)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", envOr("KALA_API_URL", "http://localhost:8080"), "Kala Sahayak service URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}
