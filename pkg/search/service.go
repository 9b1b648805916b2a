package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/paging"
	"github.com/rubiojr/seekr/pkg/query"
)

// Params represents all parameters of a one-shot search.
type Params struct {
	// Query is the raw search text. Empty shows a seed view.
	Query string

	// Page is 1-based; out of range pages are clamped.
	Page int

	// Limit overrides the configured page size when positive.
	Limit int

	// Tags restricts results to those carrying at least one of them.
	Tags []string

	// Exclude disables entity filters.
	Exclude []facets.Entity

	// View forces a seed view and ignores Query.
	View SeedKind
}

// Service executes searches against a Backend. It keeps no per-search
// state and is safe for concurrent use.
type Service struct {
	backend Backend
	opts    Options
}

// NewService creates a search service over backend.
func NewService(backend Backend, opts Options) *Service {
	return &Service{backend: backend, opts: opts.withDefaults()}
}

// Options returns the effective tuning.
func (s *Service) Options() Options {
	return s.opts
}

// Search runs the full pipeline for params. On backend failure it returns
// empty Results together with the error.
//
// Example:
//
//	res, err := svc.Search(ctx, search.Params{Query: "deploy +prod", Tags: []string{"work"}})
func (s *Service) Search(ctx context.Context, params Params) (*Results, error) {
	opts := s.opts
	if params.Limit > 0 {
		opts.PageSize = params.Limit
	}

	parsed := query.Parse(params.Query)
	engine := facets.NewEngine()
	for _, e := range params.Exclude {
		engine.SetEntityFilter(e, false)
	}
	engine.SetTagFilter(params.Tags)

	fr, err := load(ctx, s.backend, opts, parsed, params.View, max(params.Page, 1))
	if err != nil {
		logger.Errorf("search %q failed: %v", params.Query, err)
		res := emptyResults(params.Query, parsed, fr.seed, engine.State(), opts.PageSize)
		return &res, err
	}

	pager := paging.New(opts.PageSize)
	pager.SetTotal(fr.total)
	pager.Goto(fr.page)

	res := render(params.Query, fr, engine, pager, opts)
	return &res, nil
}

// ParseSearchParams parses HTTP query parameters into Params.
//
// Supported parameters:
//   - q: search text
//   - page: page number (positive integer, defaults to 1)
//   - limit: results per page (positive integer, defaults to the configured size)
//   - tag: selected tag, repeatable or comma separated
//   - exclude: disabled entity filter (projects, areas, categories, tables, processes), repeatable
//   - view: recent, most_used or tagged
//
// Unknown entities and views are errors; malformed numbers fall back to
// their defaults.
func ParseSearchParams(values url.Values) (Params, error) {
	params := Params{
		Query: values.Get("q"),
		Page:  1,
	}

	if parsed, err := strconv.Atoi(values.Get("limit")); err == nil && parsed > 0 {
		params.Limit = parsed
	}
	if parsed, err := strconv.Atoi(values.Get("page")); err == nil && parsed > 0 {
		params.Page = parsed
	}

	params.Tags = splitList(values["tag"])

	for _, name := range splitList(values["exclude"]) {
		e, err := facets.ParseEntity(name)
		if err != nil {
			return params, err
		}
		params.Exclude = append(params.Exclude, e)
	}

	view, err := ParseSeedKind(values.Get("view"))
	if err != nil {
		return params, err
	}
	params.View = view

	return params, nil
}

// splitList flattens repeated and comma separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// String renders the params for logs.
func (p Params) String() string {
	return fmt.Sprintf("q=%q page=%d limit=%d tags=%v exclude=%v view=%s",
		p.Query, p.Page, p.Limit, p.Tags, p.Exclude, p.View)
}
