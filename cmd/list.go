package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/seekr/pkg/search"
	"github.com/urfave/cli/v3"
)

// ListCommand creates the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List a seed view (recent, most_used or tagged)",
		ArgsUsage: "[VIEW]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results to show",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name := c.Args().First()
			if name == "" {
				name = string(search.SeedRecent)
			}
			view, err := search.ParseSeedKind(name)
			if err != nil {
				return err
			}
			if view == search.SeedNone {
				return fmt.Errorf("unknown view %q", name)
			}
			params := search.Params{View: view, Page: 1, Limit: c.Int("limit")}
			return searchData(ctx, stdout(c), c.String("config"), params, false)
		},
	}
}
