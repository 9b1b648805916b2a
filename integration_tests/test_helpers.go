package integration_tests

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/rubiojr/seekr/pkg/storage"
)

var (
	tagPool     = []string{"work", "home", "ops", "urgent", "reading", "finance", "travel"}
	projectPool = []string{"Roadmap", "Garden", "Taxes"}
	wordPool    = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
)

// GenerateResults builds n deterministic results from seed. Every result
// contains the word "seekr" so a keyword search can reach all of them.
func GenerateResults(n int, seed uint64) []core.SearchResult {
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	results := make([]core.SearchResult, n)
	for i := range results {
		updated := base.Add(time.Duration(rng.IntN(365*24)) * time.Hour)
		r := core.SearchResult{
			ID:        int64(i + 1),
			Type:      core.TypeItem,
			Name:      fmt.Sprintf("%s %s %d", wordPool[rng.IntN(len(wordPool))], wordPool[rng.IntN(len(wordPool))], i+1),
			Content:   "seekr " + wordPool[rng.IntN(len(wordPool))],
			UseCount:  rng.IntN(5),
			UpdatedAt: &updated,
		}
		for range rng.IntN(3) {
			r.Tags = append(r.Tags, tagPool[rng.IntN(len(tagPool))])
		}
		if rng.IntN(4) == 0 {
			r.Type = core.TypeProject
			r.Projects = []string{projectPool[rng.IntN(len(projectPool))]}
		}
		if rng.IntN(10) == 0 {
			r.IsFavorite = true
		}
		results[i] = r
	}
	return results
}

// OpenTestStore opens a store in a temp dir and loads results into it.
func OpenTestStore(t *testing.T, results []core.SearchResult) *storage.Store {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "seekr.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("Warning: failed to close store: %v", err)
		}
	})

	if len(results) > 0 {
		if err := store.Upsert(ctx, results...); err != nil {
			t.Fatalf("Failed to store results: %v", err)
		}
	}
	return store
}

// TestOptions returns search options with short debounces.
func TestOptions(pageSize int) search.Options {
	opts := search.DefaultOptions()
	opts.PageSize = pageSize
	opts.SearchDebounce = 10 * time.Millisecond
	opts.FilterDebounce = 10 * time.Millisecond
	return opts
}
