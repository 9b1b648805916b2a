package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rubiojr/seekr/pkg/storage"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run integrity checks on the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, c, checkDatabase)
				},
			},
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, c, step("ANALYZE", (*storage.Store).Analyze))
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, c, step("VACUUM", (*storage.Store).Vacuum))
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Run WAL checkpoint to flush changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, c, step("WAL checkpoint", (*storage.Store).WALCheckpoint))
				},
			},
			{
				Name:  "all",
				Usage: "Run all optimization operations (optimize, analyze, checkpoint)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(ctx, c, optimizeAll)
				},
			},
		},
	}
}

type storeFunc func(ctx context.Context, w io.Writer, store *storage.Store) error

func withStore(ctx context.Context, c *cli.Command, fn storeFunc) error {
	_, store, err := openStore(ctx, c.String("config"))
	if err != nil {
		return err
	}
	defer closeStore(store)
	return fn(ctx, stdout(c), store)
}

// step wraps a single maintenance operation with progress output.
func step(name string, op func(*storage.Store, context.Context) error) storeFunc {
	return func(ctx context.Context, w io.Writer, store *storage.Store) error {
		fmt.Fprintf(w, "Running %s on %s...\n", name, store.Path())
		if err := op(store, ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(w, "✓ %s completed\n", name)
		return nil
	}
}

// optimizeAll runs all optimization operations
func optimizeAll(ctx context.Context, w io.Writer, store *storage.Store) error {
	steps := []storeFunc{
		step("PRAGMA optimize", (*storage.Store).Optimize),
		step("ANALYZE", (*storage.Store).Analyze),
		step("WAL checkpoint", (*storage.Store).WALCheckpoint),
	}
	for _, s := range steps {
		if err := s(ctx, w, store); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, "\nAll optimization operations completed successfully")
	return nil
}

func checkDatabase(ctx context.Context, w io.Writer, store *storage.Store) error {
	fmt.Fprintf(w, "Checking %s...\n", store.Path())
	problems, err := store.IntegrityCheck(ctx)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Fprintln(w, "✓ Database is healthy")
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  ✗ %s\n", p)
	}
	return fmt.Errorf("integrity check found %d problems", len(problems))
}
