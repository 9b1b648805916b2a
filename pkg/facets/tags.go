// Package facets derives tag facets from a result set and narrows results by
// entity type and tag.
package facets

import (
	"cmp"
	"slices"

	"github.com/rubiojr/seekr/pkg/core"
)

// TagFacet is a tag name with the number of results carrying it.
type TagFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ExtractTags counts, for every distinct tag, how many results carry it. A
// tag repeated within one result counts once for that result. Facets are
// sorted by count descending, then name ascending.
func ExtractTags(results []core.SearchResult) []TagFacet {
	counts := make(map[string]int)
	seen := make(map[string]struct{})

	for i := range results {
		clear(seen)
		for _, tag := range results[i].Tags {
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}

	facets := make([]TagFacet, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, TagFacet{Name: name, Count: count})
	}
	slices.SortFunc(facets, func(a, b TagFacet) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return facets
}

// TopTags returns at most limit facets from ExtractTags. A limit <= 0 means
// no limit.
func TopTags(results []core.SearchResult, limit int) []TagFacet {
	facets := ExtractTags(results)
	if limit > 0 && len(facets) > limit {
		facets = facets[:limit]
	}
	return facets
}
