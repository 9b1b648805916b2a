package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rubiojr/seekr/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration",
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(stdout(c), c.String("config"))
		},
	}
}

// initConfig writes the commented configuration template to configPath
func initConfig(w io.Writer, configPath string) error {
	cfg, err := config.GetDefaultConfig()
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(w, "Configuration initialized at %s\n", configPath)
	return nil
}
