package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
)

type listFlags struct {
	limit     int
	page      int
	sortBy    string
	desc      bool
	person    string
	source    string
	statement string
	from      string
	to        string
}

func newListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List factoids",
		Long:  "Lists factoids from the configured backend with optional filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultListLimit, "Maximum number of factoids per page")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page to display (1-based)")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "", "Sort field (default: createdWhen)")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "Sort descending")
	cmd.Flags().StringVarP(&flags.person, "person", "p", "", "Filter by person (id, uri or text)")
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "Filter by source (id, uri or text)")
	cmd.Flags().StringVar(&flags.statement, "statement", "", "Filter by statement content (id, uri or text)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Earliest statement sortDate (inclusive)")
	cmd.Flags().StringVar(&flags.to, "to", "", "Latest statement sortDate (inclusive)")

	return cmd
}

func runList(cmd *cobra.Command, flags listFlags) error {
	ctx := cmd.Context()

	filters := ports.Filters{
		Person:    flags.person,
		Source:    flags.source,
		Statement: flags.statement,
		From:      flags.from,
		To:        flags.to,
	}
	order := ports.SortAscending
	if flags.desc {
		order = ports.SortDescending
	}

	return withConnector(func(cfg *config.Config, conn ports.Connector) error {
		factoids, err := conn.Factoids().Search(ctx, flags.limit, flags.page, flags.sortBy, order, filters)
		if err != nil {
			return fmt.Errorf("listing factoids: %w", err)
		}

		if len(factoids) == 0 {
			fmt.Println("No factoids found.")
			return nil
		}

		total, err := conn.Factoids().Count(ctx, filters)
		if err != nil {
			return fmt.Errorf("counting factoids: %w", err)
		}

		fmt.Printf("Showing %d of %d factoids:\n\n", len(factoids), total)
		for _, f := range factoids {
			displayFactoid(f)
		}
		return nil
	})
}

func displayFactoid(f *entities.Factoid) {
	fmt.Printf("ID: %s\n", f.ID)
	if f.Person != nil {
		fmt.Printf("  Person: %s\n", f.Person.ID)
	}
	if f.Source != nil {
		label := f.Source.Label
		if label == "" {
			label = "(unlabeled)"
		}
		fmt.Printf("  Source: %s %s\n", f.Source.ID, label)
	}
	for _, st := range f.Statements {
		line := st.Name
		if line == "" {
			line = st.StatementContent
		}
		fmt.Printf("  Statement %s: %s\n", st.ID, line)
	}
	fmt.Println()
}
