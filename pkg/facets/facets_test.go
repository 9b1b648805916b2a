package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/seekr/pkg/core"
)

func taggedResults() []core.SearchResult {
	return []core.SearchResult{
		{ID: 1, Type: core.TypeItem, Name: "w1", Tags: []string{"work"}},
		{ID: 2, Type: core.TypeItem, Name: "w2", Tags: []string{"work", "work"}},
		{ID: 3, Type: core.TypeItem, Name: "w3", Tags: []string{"work"}},
		{ID: 4, Type: core.TypeItem, Name: "h1", Tags: []string{"home"}},
		{ID: 5, Type: core.TypeItem, Name: "h2", Tags: []string{"home"}},
	}
}

func resultIDs(results []core.SearchResult) []int64 {
	out := make([]int64, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestExtractTags(t *testing.T) {
	facets := ExtractTags(taggedResults())
	assert.Equal(t, []TagFacet{{Name: "work", Count: 3}, {Name: "home", Count: 2}}, facets)
}

func TestTagsAreCaseSensitive(t *testing.T) {
	results := []core.SearchResult{
		{ID: 1, Tags: []string{"Work"}},
		{ID: 2, Tags: []string{"work"}},
		{ID: 3, Tags: []string{"work"}},
	}
	assert.Equal(t, []TagFacet{{Name: "work", Count: 2}, {Name: "Work", Count: 1}}, ExtractTags(results))

	// Selecting a facet keeps exactly the results it counted.
	e := NewEngine()
	e.SetTagFilter([]string{"Work"})
	assert.Equal(t, []int64{1}, resultIDs(e.Apply(results)))
	e.SetTagFilter([]string{"work"})
	assert.Equal(t, []int64{2, 3}, resultIDs(e.Apply(results)))
}

func TestExtractTagsOrdering(t *testing.T) {
	results := []core.SearchResult{
		{ID: 1, Tags: []string{"b", "a", "c"}},
		{ID: 2, Tags: []string{"c", "a", ""}},
		{ID: 3, Tags: []string{"d"}},
	}

	facets := ExtractTags(results)
	require.Len(t, facets, 4)
	assert.Equal(t, []TagFacet{
		{Name: "a", Count: 2},
		{Name: "c", Count: 2},
		{Name: "b", Count: 1},
		{Name: "d", Count: 1},
	}, facets)

	for i := 1; i < len(facets); i++ {
		assert.GreaterOrEqual(t, facets[i-1].Count, facets[i].Count)
	}
	for _, f := range facets {
		assert.LessOrEqual(t, f.Count, len(results))
	}
}

func TestTopTags(t *testing.T) {
	results := taggedResults()
	assert.Len(t, TopTags(results, 1), 1)
	assert.Equal(t, "work", TopTags(results, 1)[0].Name)
	assert.Len(t, TopTags(results, 0), 2)
	assert.Empty(t, TopTags(nil, 10))
}

func TestParseEntity(t *testing.T) {
	tests := map[string]Entity{
		"projects":   EntityProjects,
		"Project":    EntityProjects,
		"area":       EntityAreas,
		"categories": EntityCategories,
		"category":   EntityCategories,
		"tables":     EntityTables,
		"process":    EntityProcesses,
		"processes":  EntityProcesses,
	}
	for in, want := range tests {
		got, err := ParseEntity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseEntity("items")
	assert.Error(t, err)
}

func TestFilterStateEqual(t *testing.T) {
	a := DefaultState()
	b := DefaultState()
	assert.True(t, a.Equal(b))

	// A missing key counts as enabled.
	delete(b.Entities, EntityAreas)
	assert.True(t, a.Equal(b))

	b.Entities[EntityAreas] = false
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Tags["x"] = struct{}{}
	assert.False(t, a.Equal(c))
	assert.Empty(t, a.Tags, "Clone must not share the tag set")
}

func TestAssociations(t *testing.T) {
	plain := &core.SearchResult{Type: core.TypeItem}
	assert.Empty(t, Associations(plain))

	related := &core.SearchResult{
		Type:     core.TypeItem,
		Projects: []string{"site"},
		Areas:    []string{"ops"},
		Category: "git",
		Table:    "hosts",
	}
	assert.Equal(t, []Entity{EntityProjects, EntityAreas, EntityCategories, EntityTables}, Associations(related))

	project := &core.SearchResult{Type: core.TypeProject, Projects: []string{"site"}}
	assert.Equal(t, []Entity{EntityProjects}, Associations(project))
}

func TestEngineTagFilter(t *testing.T) {
	results := taggedResults()
	e := NewEngine()

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, resultIDs(e.Apply(results)))

	e.SetTagFilter([]string{"home"})
	assert.Equal(t, []int64{4, 5}, resultIDs(e.Apply(results)))

	// OR semantics across selected tags.
	e.SetTagFilter([]string{"home", "work"})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, resultIDs(e.Apply(results)))

	e.ClearTags()
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, resultIDs(e.Apply(results)))
}

func TestEngineEntityFilter(t *testing.T) {
	results := []core.SearchResult{
		{ID: 1, Type: core.TypeItem},
		{ID: 2, Type: core.TypeItem, Projects: []string{"site"}},
		{ID: 3, Type: core.TypeProject},
		{ID: 4, Type: core.TypeItem, Projects: []string{"site"}, Areas: []string{"ops"}},
		{ID: 5, Type: core.TypeArea},
	}

	e := NewEngine()
	e.SetEntityFilter(EntityProjects, false)
	// Plain item 1 bypasses; 4 survives through its area.
	assert.Equal(t, []int64{1, 4, 5}, resultIDs(e.Apply(results)))

	e.SetEntityFilter(EntityAreas, false)
	assert.Equal(t, []int64{1}, resultIDs(e.Apply(results)))
}

func TestEngineEntityAndTagIntersect(t *testing.T) {
	results := []core.SearchResult{
		{ID: 1, Type: core.TypeProject, Tags: []string{"work"}},
		{ID: 2, Type: core.TypeArea, Tags: []string{"work"}},
		{ID: 3, Type: core.TypeArea, Tags: []string{"home"}},
	}

	e := NewEngine()
	e.SetEntityFilter(EntityProjects, false)
	e.SetTagFilter([]string{"work"})
	assert.Equal(t, []int64{2}, resultIDs(e.Apply(results)))
}

func TestEngineReturnsCachedView(t *testing.T) {
	results := taggedResults()
	e := NewEngine()
	e.SetTagFilter([]string{"home"})

	first := e.Apply(results)
	second := e.Apply(results)
	assert.Equal(t, 1, e.Recomputations(), "identical state must not recompute")
	assert.Equal(t, resultIDs(first), resultIDs(second))

	// Re-selecting the same tags is still a no-op.
	e.SetTagFilter([]string{"home"})
	e.Apply(results)
	assert.Equal(t, 1, e.Recomputations())

	e.SetTagFilter([]string{"work"})
	e.Apply(results)
	assert.Equal(t, 2, e.Recomputations())

	// A new result set is always recomputed.
	e.Apply(taggedResults())
	assert.Equal(t, 3, e.Recomputations())

	e.Invalidate()
	e.Apply(results)
	assert.Equal(t, 4, e.Recomputations())
}

func TestEngineSchedulesOnChange(t *testing.T) {
	calls := 0
	e := NewEngine()
	e.SetScheduler(func() { calls++ })

	e.SetEntityFilter(EntityTables, false)
	e.SetTagFilter([]string{"a"})
	e.ClearTags()
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, e.Recomputations(), "setters must not recompute")

	e.Reset()
	assert.Equal(t, 4, calls)
	assert.True(t, e.State().AllEntitiesEnabled())
}
