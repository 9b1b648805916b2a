package core

import (
	"fmt"
	"strings"
	"time"
)

// ResultType identifies the kind of entity a SearchResult was projected from.
type ResultType string

const (
	TypeItem     ResultType = "item"
	TypeProject  ResultType = "project"
	TypeArea     ResultType = "area"
	TypeCategory ResultType = "category"
	TypeTable    ResultType = "table"
	TypeProcess  ResultType = "process"
)

// ResultTypes lists every known result type in display order.
var ResultTypes = []ResultType{TypeItem, TypeProject, TypeArea, TypeCategory, TypeTable, TypeProcess}

// ParseResultType converts a stored or user supplied type name into a ResultType.
// Matching is case-insensitive and accepts the plural form ("projects").
func ParseResultType(s string) (ResultType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "categories":
		name = "category"
	case "processes":
		name = "process"
	default:
		name = strings.TrimSuffix(name, "s")
		if name == "proces" {
			name = "process"
		}
	}
	for _, t := range ResultTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown result type %q", s)
}

// Icon returns the fallback icon shown when a result carries none.
func (t ResultType) Icon() string {
	switch t {
	case TypeProject:
		return "📁"
	case TypeArea:
		return "🗂️"
	case TypeCategory:
		return "🏷️"
	case TypeTable:
		return "📋"
	case TypeProcess:
		return "⚙️"
	default:
		return "📄"
	}
}

// Key uniquely identifies a result within one search session.
type Key struct {
	ID   int64
	Type ResultType
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d", k.Type, k.ID)
}

// SearchResult is a read-only projection of a stored entity used for display
// and filtering. Results are built fresh on every backend fetch and never
// mutated afterwards; favorite toggles or deletes require a re-fetch.
type SearchResult struct {
	ID          int64      `json:"id"`
	Type        ResultType `json:"type"`
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Color       string     `json:"color,omitempty"`

	// Tags may contain duplicates coming from the source. Faceting treats
	// them as a set.
	Tags []string `json:"tags,omitempty"`

	Projects  []string `json:"projects,omitempty"`
	Areas     []string `json:"areas,omitempty"`
	Processes []string `json:"processes,omitempty"`

	Category string `json:"category,omitempty"`
	Table    string `json:"table,omitempty"`
	List     string `json:"list,omitempty"`

	IsFavorite  bool `json:"is_favorite"`
	IsSensitive bool `json:"is_sensitive"`
	UseCount    int  `json:"use_count"`

	LastUsed  *time.Time `json:"last_used,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Key returns the session-unique identity of the result.
func (r *SearchResult) Key() Key {
	return Key{ID: r.ID, Type: r.Type}
}

// DisplayIcon returns the result icon or the type fallback.
func (r *SearchResult) DisplayIcon() string {
	if r.Icon != "" {
		return r.Icon
	}
	return r.Type.Icon()
}

// Summary returns a concise one-line summary of the result.
func (r *SearchResult) Summary() string {
	return fmt.Sprintf("%s %s", r.DisplayIcon(), r.Name)
}

// HasTag reports whether the result carries the given tag.
func (r *SearchResult) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
