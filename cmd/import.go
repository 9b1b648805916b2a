package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rubiojr/seekr/pkg/importer"
	"github.com/rubiojr/seekr/pkg/storage"
	"github.com/urfave/cli/v3"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import results from JSON dumps (optionally zstd compressed)",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() == 0 {
				return fmt.Errorf("import requires at least one file")
			}
			return importFiles(ctx, stdout(c), c.String("config"), c.Args().Slice())
		},
	}
}

// importFiles upserts every result found in files. A failing file aborts
// the import; files before it stay imported.
func importFiles(ctx context.Context, w io.Writer, configPath string, files []string) error {
	_, store, err := openStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	total := 0
	for _, file := range files {
		n, err := importFile(ctx, store, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Imported %s results from %s\n", formatNumber(n), file)
		total += n
	}

	if len(files) > 1 {
		fmt.Fprintf(w, "Total: %s results\n", formatNumber(total))
	}
	return nil
}

func importFile(ctx context.Context, store *storage.Store, file string) (int, error) {
	results, err := importer.Load(file)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", file, err)
	}
	if err := store.Upsert(ctx, results...); err != nil {
		return 0, fmt.Errorf("storing results from %s: %w", file, err)
	}
	return len(results), nil
}
