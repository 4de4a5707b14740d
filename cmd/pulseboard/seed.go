package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/seed"
	"github.com/pulseboard/pulseboard/internal/sqlite"
)

func newSeedCmd() *cobra.Command {
	var counts seed.Counts

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with generated sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), counts)
		},
	}

	cmd.Flags().IntVar(&counts.Projects, "projects", seed.DefaultCounts.Projects, "Number of projects to create")
	cmd.Flags().IntVar(&counts.Tickets, "tickets", seed.DefaultCounts.Tickets, "Number of tickets to create")
	cmd.Flags().IntVar(&counts.Members, "members", seed.DefaultCounts.Members, "Number of members to create")

	return cmd
}

func runSeed(ctx context.Context, counts seed.Counts) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger := newLogger(cfg.Log, "")

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	seeder := seed.New(
		sqlite.NewProjectRepository(db),
		sqlite.NewTicketRepository(db),
		sqlite.NewMemberRepository(db),
		logger,
	)
	return seeder.Run(ctx, counts)
}
