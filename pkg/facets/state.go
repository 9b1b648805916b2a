package facets

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rubiojr/seekr/pkg/core"
)

// Entity is an entity-type filter key.
type Entity string

const (
	EntityProjects   Entity = "projects"
	EntityAreas      Entity = "areas"
	EntityCategories Entity = "categories"
	EntityTables     Entity = "tables"
	EntityProcesses  Entity = "processes"
)

// Entities lists every entity filter in display order.
var Entities = []Entity{EntityProjects, EntityAreas, EntityCategories, EntityTables, EntityProcesses}

// ParseEntity converts a user supplied name into an Entity.
func ParseEntity(s string) (Entity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, e := range Entities {
		if string(e) == name || strings.TrimSuffix(string(e), "s") == name {
			return e, nil
		}
	}
	if name == "category" {
		return EntityCategories, nil
	}
	if name == "process" {
		return EntityProcesses, nil
	}
	return "", fmt.Errorf("unknown entity filter %q", s)
}

// FilterState is the value object describing the active filters. Missing
// entity keys count as enabled; an empty tag set applies no tag restriction.
type FilterState struct {
	Entities map[Entity]bool
	Tags     map[string]struct{}
}

// DefaultState returns a state with every entity enabled and no tags.
func DefaultState() FilterState {
	s := FilterState{
		Entities: make(map[Entity]bool, len(Entities)),
		Tags:     make(map[string]struct{}),
	}
	for _, e := range Entities {
		s.Entities[e] = true
	}
	return s
}

// Clone returns a deep copy.
func (s FilterState) Clone() FilterState {
	return FilterState{
		Entities: maps.Clone(s.Entities),
		Tags:     maps.Clone(s.Tags),
	}
}

// Equal reports whether both states filter identically.
func (s FilterState) Equal(o FilterState) bool {
	for _, e := range Entities {
		if s.EntityEnabled(e) != o.EntityEnabled(e) {
			return false
		}
	}
	if len(s.Tags) != len(o.Tags) {
		return false
	}
	for t := range s.Tags {
		if _, ok := o.Tags[t]; !ok {
			return false
		}
	}
	return true
}

// EntityEnabled reports whether results associated with e are shown.
func (s FilterState) EntityEnabled(e Entity) bool {
	enabled, ok := s.Entities[e]
	return !ok || enabled
}

// AllEntitiesEnabled reports whether the entity filter is a no-op.
func (s FilterState) AllEntitiesEnabled() bool {
	for _, e := range Entities {
		if !s.EntityEnabled(e) {
			return false
		}
	}
	return true
}

// TagList returns the selected tags sorted by name.
func (s FilterState) TagList() []string {
	return slices.Sorted(maps.Keys(s.Tags))
}

// Allows reports whether r passes both the entity and the tag filter.
func (s FilterState) Allows(r *core.SearchResult) bool {
	return s.allowsEntity(r) && s.allowsTags(r)
}

// allowsEntity keeps a result if any of its entity associations is enabled.
// Results without associations (plain items) bypass the entity filter.
func (s FilterState) allowsEntity(r *core.SearchResult) bool {
	if s.AllEntitiesEnabled() {
		return true
	}
	assoc := Associations(r)
	if len(assoc) == 0 {
		return true
	}
	for _, e := range assoc {
		if s.EntityEnabled(e) {
			return true
		}
	}
	return false
}

func (s FilterState) allowsTags(r *core.SearchResult) bool {
	if len(s.Tags) == 0 {
		return true
	}
	for _, t := range r.Tags {
		if _, ok := s.Tags[t]; ok {
			return true
		}
	}
	return false
}

// Associations returns the entity filters a result contributes to: its own
// type when it is not a plain item, plus every non-empty relation.
func Associations(r *core.SearchResult) []Entity {
	var assoc []Entity
	add := func(e Entity) {
		if !slices.Contains(assoc, e) {
			assoc = append(assoc, e)
		}
	}

	switch r.Type {
	case core.TypeProject:
		add(EntityProjects)
	case core.TypeArea:
		add(EntityAreas)
	case core.TypeCategory:
		add(EntityCategories)
	case core.TypeTable:
		add(EntityTables)
	case core.TypeProcess:
		add(EntityProcesses)
	}

	if len(r.Projects) > 0 {
		add(EntityProjects)
	}
	if len(r.Areas) > 0 {
		add(EntityAreas)
	}
	if r.Category != "" {
		add(EntityCategories)
	}
	if r.Table != "" {
		add(EntityTables)
	}
	if len(r.Processes) > 0 {
		add(EntityProcesses)
	}
	return assoc
}
