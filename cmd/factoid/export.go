package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/factoid-core/internal/domain/entities"
	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
)

type exportFlags struct {
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all factoids to a JSON snapshot",
		Long:  "Writes the full factoid population of the configured backend as a JSON snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	ctx := cmd.Context()

	return withConnector(func(cfg *config.Config, conn ports.Connector) error {
		factoids, err := fetchAllFactoids(ctx, conn.Factoids())
		if err != nil {
			return err
		}
		return writeSnapshot(factoids, flags.output)
	})
}

// fetchAllFactoids pages through the whole population in id order so the
// snapshot is stable across runs.
func fetchAllFactoids(ctx context.Context, factoids ports.FactoidConnector) ([]*entities.Factoid, error) {
	var all []*entities.Factoid
	for page := 1; ; page++ {
		batch, err := factoids.Search(ctx, ExportPageSize, page, "@id", ports.SortAscending, ports.Filters{})
		if err != nil {
			return nil, fmt.Errorf("fetching factoids: %w", err)
		}
		all = append(all, batch...)
		if len(batch) < ExportPageSize {
			return all, nil
		}
	}
}

func writeSnapshot(factoids []*entities.Factoid, output string) (err error) {
	var w io.Writer
	var f *os.File

	if output != "" {
		f, err = os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(factoids); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if output != "" {
		fmt.Printf("Exported %d factoids to %s\n", len(factoids), output)
	}

	return nil
}
