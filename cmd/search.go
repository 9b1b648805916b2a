package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search stored results",
		ArgsUsage: "QUERY...",
		Description: `The query supports operators:
  -word or NOT word   exclude results containing word
  +word or AND word   require word
  word OR other       match either (informational)
  "exact phrase"      require the phrase`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page to show",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (defaults to search.page_size)",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Only show results tagged with any of these tags",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Hide results associated with an entity (projects, areas, categories, tables, processes)",
			},
			&cli.StringFlag{
				Name:  "view",
				Usage: "Show a seed view instead of searching (recent, most_used, tagged)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the results as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			params, err := searchParams(c)
			if err != nil {
				return err
			}
			return searchData(ctx, stdout(c), c.String("config"), params, c.Bool("json"))
		},
	}
}

// TagsCommand creates the tags command
func TagsCommand() *cli.Command {
	return &cli.Command{
		Name:      "tags",
		Usage:     "Show tag facets for a query (or for the recent view)",
		ArgsUsage: "[QUERY...]",
		Action: func(ctx context.Context, c *cli.Command) error {
			params := search.Params{Query: strings.Join(c.Args().Slice(), " "), Page: 1}
			return showTags(ctx, stdout(c), c.String("config"), params)
		},
	}
}

func searchParams(c *cli.Command) (search.Params, error) {
	params := search.Params{
		Query: strings.Join(c.Args().Slice(), " "),
		Page:  c.Int("page"),
		Limit: c.Int("limit"),
		Tags:  c.StringSlice("tag"),
	}

	for _, name := range c.StringSlice("exclude") {
		entity, err := facets.ParseEntity(name)
		if err != nil {
			return params, err
		}
		params.Exclude = append(params.Exclude, entity)
	}

	view, err := search.ParseSeedKind(c.String("view"))
	if err != nil {
		return params, err
	}
	params.View = view
	return params, nil
}

// searchData runs one search and prints the page
func searchData(ctx context.Context, w io.Writer, configPath string, params search.Params, asJSON bool) error {
	cfg, store, err := openStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	res, err := newService(cfg, store).Search(ctx, params)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResults(w, res)
	return nil
}

func showTags(ctx context.Context, w io.Writer, configPath string, params search.Params) error {
	cfg, store, err := openStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	res, err := newService(cfg, store).Search(ctx, params)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if len(res.Facets) == 0 {
		fmt.Fprintln(w, noDataStyle.Render("No tags found"))
		return nil
	}
	fmt.Fprintln(w, titleStyle.Render(viewTitle(res)))
	for _, f := range res.Facets {
		fmt.Fprintf(w, "  %-24s %s\n", tagStyle.Render(f.Name), formatNumber(f.Count))
	}
	return nil
}
