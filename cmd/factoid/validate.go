package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/services"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector/jsonfile"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a JSON snapshot",
		Long:  "Checks the structural rules of a snapshot file and reports every problem found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	factoids, err := jsonfile.Decode(data)
	if err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}

	report := services.ValidateFactoids(factoids)
	if report.OK() {
		fmt.Printf("%s: %d factoids, no problems found\n", filePath, report.Factoids)
		return nil
	}

	fmt.Printf("%s: %d factoids, %d problems:\n", filePath, report.Factoids, len(report.Problems))
	for _, p := range report.Problems {
		fmt.Printf("  %s\n", p)
	}
	return fmt.Errorf("snapshot is invalid")
}
