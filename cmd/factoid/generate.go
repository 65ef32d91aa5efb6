package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/mockdata"
)

type generateFlags struct {
	count   int
	baseURL string
	output  string
}

func newGenerateCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a deterministic factoid population",
		Long:  "Writes a JSON snapshot of generated factoids, usable as a jsonfile backend or as import input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(flags)
		},
	}

	cmd.Flags().IntVarP(&flags.count, "count", "n", DefaultGenerateCount, "Number of factoids to generate")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", mockdata.DefaultBaseURL, "Base URL for generated uris")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerate(flags generateFlags) error {
	if flags.count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", flags.count)
	}

	factoids := mockdata.NewGenerator(flags.baseURL).Factoids(flags.count)

	data, err := json.MarshalIndent(factoids, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding factoids: %w", err)
	}
	data = append(data, '\n')

	if flags.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(flags.output, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	fmt.Printf("Generated %d factoids to %s\n", len(factoids), flags.output)

	return nil
}
