package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/seekr/pkg/config"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/rubiojr/seekr/pkg/storage"
	"github.com/urfave/cli/v3"
)

// openStore loads the configuration and opens the result store it points
// to. Callers must close the store with closeStore.
func openStore(ctx context.Context, configPath string) (*config.Config, *storage.Store, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(ctx, cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return cfg, store, nil
}

func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
	}
}

// newService builds a search service tuned from the [search] section.
func newService(cfg *config.Config, store *storage.Store) *search.Service {
	return search.NewService(store, search.OptionsFromConfig(cfg.Search))
}

// stdout returns the writer commands print to.
func stdout(c *cli.Command) io.Writer {
	if root := c.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func stdin(c *cli.Command) io.Reader {
	if root := c.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}
