package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"kalasahayak/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate <command>",
		Short:         "Apply and manage the storefront database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(db *sql.DB) error {
					if err := goose.Up(db, migrationsDir()); err != nil {
						return fmt.Errorf("apply migrations: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(db *sql.DB) error {
					if err := goose.Down(db, migrationsDir()); err != nil {
						return fmt.Errorf("roll back migration: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations have been applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), func(db *sql.DB) error {
					return goose.Status(db, migrationsDir())
				})
			},
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := goose.Create(nil, migrationsDir(), args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migration created: %s\n", args[0])
				return nil
			},
		},
	)
	return root
}

func withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
