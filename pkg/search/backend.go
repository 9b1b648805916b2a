package search

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_backend.go -package=mocks github.com/rubiojr/seekr/pkg/search Backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rubiojr/seekr/pkg/core"
)

// Backend is the storage contract the pipeline consumes. SearchItems and
// CountItems receive the parsed base query and must agree on the candidate
// set; every method may fail.
type Backend interface {
	SearchItems(ctx context.Context, baseQuery string, limit, offset int) ([]core.SearchResult, error)
	CountItems(ctx context.Context, baseQuery string) (int, error)
	RecentItems(ctx context.Context, limit int) ([]core.SearchResult, error)
	MostUsed(ctx context.Context, limit int) ([]core.SearchResult, error)
	ItemsWithTags(ctx context.Context, limit int) ([]core.SearchResult, error)
}

// SeedKind selects the view shown instead of a keyword search.
type SeedKind string

const (
	SeedNone     SeedKind = ""
	SeedRecent   SeedKind = "recent"
	SeedMostUsed SeedKind = "most_used"
	SeedTagged   SeedKind = "tagged"
)

// ParseSeedKind accepts the view names used by the CLI and the API.
func ParseSeedKind(s string) (SeedKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SeedNone, nil
	case "recent":
		return SeedRecent, nil
	case "most_used", "most-used", "mostused":
		return SeedMostUsed, nil
	case "tagged", "tags", "with_tags":
		return SeedTagged, nil
	}
	return SeedNone, fmt.Errorf("unknown view %q (want recent, most_used or tagged)", s)
}

func (k SeedKind) String() string {
	if k == SeedNone {
		return "search"
	}
	return string(k)
}
