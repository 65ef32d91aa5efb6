package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/domain/services"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/jsonfile"
)

type importFlags struct {
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import factoids from a JSON snapshot",
		Long:  "Reads a snapshot file, repairs missing metadata and creates every factoid in the configured backend.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	ctx := cmd.Context()

	return withConnector(func(cfg *config.Config, conn ports.Connector) error {
		factoids, err := jsonfile.ReadFile(filePath, cfg.Contact)
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}

		report := services.ValidateFactoids(factoids)
		if !report.OK() {
			fmt.Printf("Validation errors (%d):\n", len(report.Problems))
			for _, p := range report.Problems {
				fmt.Printf("  %s\n", p)
			}
			return fmt.Errorf("snapshot is not importable")
		}

		if flags.dryRun {
			fmt.Printf("Dry run: %d factoids would be imported\n", len(factoids))
			return nil
		}

		fmt.Printf("Importing %s...\n", filePath)

		imported := 0
		for _, f := range factoids {
			if _, err := conn.Factoids().Create(ctx, f); err != nil {
				return fmt.Errorf("importing factoid %q: %w", f.ID, err)
			}
			imported++
		}

		fmt.Printf("Imported: %d factoids\n", imported)
		return nil
	})
}
