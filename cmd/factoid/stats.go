package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entity counts of the configured backend",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withConnector(func(cfg *config.Config, conn ports.Connector) error {
		factoids, err := conn.Factoids().Count(ctx, ports.Filters{})
		if err != nil {
			return fmt.Errorf("counting factoids: %w", err)
		}
		persons, err := conn.Persons().Count(ctx, ports.Filters{})
		if err != nil {
			return fmt.Errorf("counting persons: %w", err)
		}
		sources, err := conn.Sources().Count(ctx, ports.Filters{})
		if err != nil {
			return fmt.Errorf("counting sources: %w", err)
		}
		statements, err := conn.Statements().Count(ctx, ports.Filters{})
		if err != nil {
			return fmt.Errorf("counting statements: %w", err)
		}

		fmt.Printf("Backend:    %s\n", cfg.Connector)
		fmt.Printf("Factoids:   %d\n", factoids)
		fmt.Printf("Persons:    %d\n", persons)
		fmt.Printf("Sources:    %d\n", sources)
		fmt.Printf("Statements: %d\n", statements)
		return nil
	})
}
