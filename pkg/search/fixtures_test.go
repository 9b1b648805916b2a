package search_test

import (
	"fmt"

	"github.com/rubiojr/seekr/pkg/core"
)

// workHome returns three results tagged work and two tagged home.
func workHome() []core.SearchResult {
	return []core.SearchResult{
		{ID: 1, Type: core.TypeItem, Name: "standup notes", Content: "work sync", Tags: []string{"work"}},
		{ID: 2, Type: core.TypeItem, Name: "deploy checklist", Content: "work release draft", Tags: []string{"work", "ops"}},
		{ID: 3, Type: core.TypeProject, Name: "Roadmap", Content: "work planning", Tags: []string{"work"}, Projects: []string{"Roadmap"}},
		{ID: 4, Type: core.TypeItem, Name: "groceries", Content: "after work shopping", Tags: []string{"home"}},
		{ID: 5, Type: core.TypeItem, Name: "plumber", Content: "call after work", Tags: []string{"home"}},
	}
}

func numbered(n, start int) []core.SearchResult {
	out := make([]core.SearchResult, n)
	for i := range out {
		id := int64(start + i)
		out[i] = core.SearchResult{ID: id, Type: core.TypeItem, Name: fmt.Sprintf("result %d", id)}
	}
	return out
}

func ids(results []core.SearchResult) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
