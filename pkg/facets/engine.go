package facets

import (
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/log"
)

var logger = log.ForService("facets")

// Engine holds the filter state of one search session and produces the
// filtered view of a result set.
//
// Setters never recompute. They only notify the scheduler hook, which the
// owner wires to a debouncer that eventually calls Apply. Apply skips the
// recomputation when neither the filter state nor the input changed since
// the previous call and returns the cached view instead.
//
// An Engine is owned by a single goroutine and is not safe for concurrent use.
type Engine struct {
	state FilterState

	applied  *FilterState
	input    []core.SearchResult
	view     []core.SearchResult
	schedule func()

	recomputations int
}

// NewEngine returns an engine with every entity enabled and no tag filter.
func NewEngine() *Engine {
	return &Engine{state: DefaultState()}
}

// SetScheduler installs the hook notified after every filter change.
func (e *Engine) SetScheduler(fn func()) {
	e.schedule = fn
}

// SetEntityFilter enables or disables results associated with entity.
func (e *Engine) SetEntityFilter(entity Entity, enabled bool) {
	e.state.Entities[entity] = enabled
	e.changed()
}

// SetTagFilter replaces the selected tags. An empty set removes the tag
// restriction.
func (e *Engine) SetTagFilter(tags []string) {
	e.state.Tags = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t != "" {
			e.state.Tags[t] = struct{}{}
		}
	}
	e.changed()
}

// ClearTags removes the tag restriction.
func (e *Engine) ClearTags() {
	e.SetTagFilter(nil)
}

// Reset restores the default state and drops the cached view.
func (e *Engine) Reset() {
	e.state = DefaultState()
	e.Invalidate()
	e.changed()
}

// State returns a copy of the current filter state.
func (e *Engine) State() FilterState {
	return e.state.Clone()
}

// Invalidate forgets the cached view so the next Apply recomputes.
func (e *Engine) Invalidate() {
	e.applied = nil
	e.input = nil
	e.view = nil
}

// Recomputations returns how many times Apply actually filtered results.
func (e *Engine) Recomputations() int {
	return e.recomputations
}

// Apply returns the results allowed by the current state, preserving order.
func (e *Engine) Apply(results []core.SearchResult) []core.SearchResult {
	if e.applied != nil && e.applied.Equal(e.state) && sameResults(e.input, results) {
		logger.Debugf("filters unchanged, reusing %d cached results", len(e.view))
		return e.view
	}

	view := results
	if !e.state.AllEntitiesEnabled() || len(e.state.Tags) > 0 {
		view = make([]core.SearchResult, 0, len(results))
		for i := range results {
			if e.state.Allows(&results[i]) {
				view = append(view, results[i])
			}
		}
	}

	snapshot := e.state.Clone()
	e.applied = &snapshot
	e.input = results
	e.view = view
	e.recomputations++

	logger.Debugf("filters applied: %d -> %d results (tags=%v)", len(results), len(view), snapshot.TagList())
	return view
}

func (e *Engine) changed() {
	if e.schedule != nil {
		e.schedule()
	}
}

// sameResults reports whether a and b are the same slice, not merely equal
// contents. New fetches always allocate a new backing array.
func sameResults(a, b []core.SearchResult) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
