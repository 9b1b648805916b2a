package search

import (
	"context"
	"fmt"
	"slices"

	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/log"
	"github.com/rubiojr/seekr/pkg/paging"
	"github.com/rubiojr/seekr/pkg/query"
)

var logger = log.ForService("search")

// Results is one rendered page of the pipeline.
type Results struct {
	// Query is the raw text as typed.
	Query  string            `json:"query"`
	Parsed query.ParsedQuery `json:"parsed"`

	// View is the seed view shown, empty for a keyword search.
	View SeedKind `json:"view,omitempty"`

	// Results is the displayed page after operator and facet filtering.
	Results []core.SearchResult `json:"results"`

	// Facets are computed over the page before facet filtering, so tags
	// that are not selected yet can still be picked.
	Facets  []facets.TagFacet `json:"facets"`
	Stats   core.Stats        `json:"stats"`
	Filters Filters           `json:"filters"`

	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Total      int    `json:"total"`
	PageSize   int    `json:"page_size"`
	PageLabel  string `json:"page_label"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
}

// Filters is the JSON friendly form of a facets.FilterState.
type Filters struct {
	Tags     []string        `json:"tags"`
	Excluded []facets.Entity `json:"excluded"`
}

func filtersOf(state facets.FilterState) Filters {
	f := Filters{Tags: state.TagList(), Excluded: []facets.Entity{}}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	for _, e := range facets.Entities {
		if !state.EntityEnabled(e) {
			f.Excluded = append(f.Excluded, e)
		}
	}
	return f
}

// fetchResult is the outcome of one backend round trip.
type fetchResult struct {
	// raw is the query text parsed is derived from.
	raw        string
	parsed     query.ParsedQuery
	seed       SeedKind
	candidates []core.SearchResult
	total      int
	page       int
}

// load runs the backend part of the pipeline for page (1-based, clamped).
// An empty query with no explicit seed falls back to the recent view.
func load(ctx context.Context, b Backend, o Options, parsed query.ParsedQuery, seed SeedKind, page int) (fetchResult, error) {
	fr := fetchResult{parsed: parsed, seed: seed, candidates: []core.SearchResult{}}
	if seed == SeedNone && parsed.IsEmpty() {
		fr.seed = SeedRecent
	}
	pager := paging.New(o.PageSize)

	if fr.seed != SeedNone {
		items, err := loadSeed(ctx, b, fr.seed, o.seedLimit(fr.seed))
		if err != nil {
			return fr, err
		}
		pager.SetTotal(len(items))
		pager.Goto(page)
		if first, last := pager.Range(); last > 0 {
			fr.candidates = slices.Clone(items[first-1 : last])
		}
		fr.total = pager.Total()
		fr.page = pager.CurrentPage()
		return fr, nil
	}

	total, err := b.CountItems(ctx, parsed.BaseQuery)
	if err != nil {
		return fr, fmt.Errorf("counting items: %w", err)
	}
	pager.SetTotal(total)
	pager.Goto(page)

	if total > 0 {
		items, err := b.SearchItems(ctx, parsed.BaseQuery, pager.PageSize(), pager.Offset())
		if err != nil {
			return fr, fmt.Errorf("searching items: %w", err)
		}
		if items != nil {
			fr.candidates = query.Apply(items, parsed)
		}
	}

	fr.total = total
	fr.page = pager.CurrentPage()
	logger.Debugf("fetched %d candidates of %d for %s", len(fr.candidates), total, parsed)
	return fr, nil
}

func loadSeed(ctx context.Context, b Backend, kind SeedKind, limit int) ([]core.SearchResult, error) {
	var (
		items []core.SearchResult
		err   error
	)
	switch kind {
	case SeedMostUsed:
		items, err = b.MostUsed(ctx, limit)
	case SeedTagged:
		items, err = b.ItemsWithTags(ctx, limit)
	default:
		items, err = b.RecentItems(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s view: %w", kind, err)
	}
	return items, nil
}

// render applies the facet engine to a fetch and fills in the page metadata.
func render(raw string, fr fetchResult, engine *facets.Engine, pager *paging.Paginator, o Options) Results {
	view := engine.Apply(fr.candidates)
	if view == nil {
		view = []core.SearchResult{}
	}
	return Results{
		Query:      raw,
		Parsed:     fr.parsed,
		View:       fr.seed,
		Results:    view,
		Facets:     facets.TopTags(fr.candidates, o.MaxTagFacets),
		Stats:      core.ComputeStats(view),
		Filters:    filtersOf(engine.State()),
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
		Total:      pager.Total(),
		PageSize:   pager.PageSize(),
		PageLabel:  pager.String(),
		HasNext:    pager.HasNext(),
		HasPrev:    pager.HasPrev(),
	}
}

// emptyResults is what a failed fetch renders: no results, page 0 of 0.
func emptyResults(raw string, parsed query.ParsedQuery, seed SeedKind, state facets.FilterState, pageSize int) Results {
	pager := paging.New(pageSize)
	return Results{
		Query:     raw,
		Parsed:    parsed,
		View:      seed,
		Results:   []core.SearchResult{},
		Facets:    []facets.TagFacet{},
		Filters:   filtersOf(state),
		PageSize:  pager.PageSize(),
		PageLabel: pager.String(),
	}
}
