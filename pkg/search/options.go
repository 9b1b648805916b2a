package search

import (
	"time"

	"github.com/rubiojr/seekr/pkg/config"
)

// Options tunes the pipeline. Zero fields take the defaults from the
// config package.
type Options struct {
	PageSize       int
	HistorySize    int
	SearchDebounce time.Duration
	FilterDebounce time.Duration
	MaxTagFacets   int
	RecentLimit    int
	MostUsedLimit  int
	TaggedLimit    int
}

// DefaultOptions returns the stock tuning: 100 results per page, 300ms
// search and 200ms filter debounce.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// OptionsFromConfig maps the [search] section of the config file.
func OptionsFromConfig(c config.SearchConfig) Options {
	return Options{
		PageSize:       c.PageSize,
		HistorySize:    c.HistorySize,
		SearchDebounce: c.SearchDebounce.Duration,
		FilterDebounce: c.FilterDebounce.Duration,
		MaxTagFacets:   c.MaxTagFacets,
		RecentLimit:    c.SeedLimits.Recent,
		MostUsedLimit:  c.SeedLimits.MostUsed,
		TaggedLimit:    c.SeedLimits.Tagged,
	}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = config.DefaultPageSize
	}
	if o.HistorySize <= 0 {
		o.HistorySize = config.DefaultHistorySize
	}
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = config.DefaultSearchDebounce
	}
	if o.FilterDebounce <= 0 {
		o.FilterDebounce = config.DefaultFilterDebounce
	}
	if o.MaxTagFacets <= 0 {
		o.MaxTagFacets = config.DefaultMaxTagFacets
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = config.DefaultRecentLimit
	}
	if o.MostUsedLimit <= 0 {
		o.MostUsedLimit = config.DefaultMostUsedLimit
	}
	if o.TaggedLimit <= 0 {
		o.TaggedLimit = config.DefaultTaggedLimit
	}
	return o
}

func (o Options) seedLimit(kind SeedKind) int {
	switch kind {
	case SeedMostUsed:
		return o.MostUsedLimit
	case SeedTagged:
		return o.TaggedLimit
	default:
		return o.RecentLimit
	}
}
