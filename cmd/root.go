package cmd

import (
	"context"
	"strings"

	"github.com/rubiojr/seekr/pkg/log"
	"github.com/urfave/cli/v3"
)

// RootCommand builds the seekr command tree. defaultConfig is the value of
// --config when the flag is not given.
func RootCommand(defaultConfig string) *cli.Command {
	return &cli.Command{
		Name:  "seekr",
		Usage: "Faceted search over your items, projects and notes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringSliceFlag{
				Name:  "debug-for",
				Usage: "Enable debug logging for the named services only (search, storage, db, api, serve, ...)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: defaultConfig,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			for _, name := range c.StringSlice("debug-for") {
				log.EnableDebugFor(strings.TrimSpace(name))
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			InitCommand(),
			ImportCommand(),
			SearchCommand(),
			TagsCommand(),
			ListCommand(),
			StatsCommand(),
			ShellCommand(),
			ServeCommand(),
			MigrateCommand(),
			OptimizeCommand(),
			VersionCommand(),
		},
	}
}
