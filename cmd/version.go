package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/seekr/pkg/db"
	"github.com/rubiojr/seekr/pkg/version"
	"github.com/urfave/cli/v3"
)

// VersionCommand prints the release banner and the newest schema migration
// this binary knows about.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			w := stdout(c)
			fmt.Fprintln(w, version.BuildVersion())

			migrations, err := db.EmbeddedMigrations()
			if err != nil {
				return err
			}
			if n := len(migrations); n > 0 {
				latest := migrations[n-1]
				fmt.Fprintf(w, "Schema: %03d_%s\n", latest.Version, latest.Name)
			}
			return nil
		},
	}
}
