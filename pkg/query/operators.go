package query

import (
	"strings"

	"github.com/rubiojr/seekr/pkg/core"
)

// Apply re-evaluates q against already fetched candidates and returns the
// ones that satisfy every operator, preserving their relative order. When
// q has no operators the candidates are returned unchanged; otherwise the
// result is a freshly allocated slice.
func Apply(candidates []core.SearchResult, q ParsedQuery) []core.SearchResult {
	if !q.HasOperators {
		return candidates
	}

	filtered := make([]core.SearchResult, 0, len(candidates))
	for i := range candidates {
		if Match(&candidates[i], q) {
			filtered = append(filtered, candidates[i])
		}
	}
	return filtered
}

// Match evaluates the operator conditions of q against a single result.
// Checks run in order and stop at the first failure: NOT terms, AND terms,
// exact phrases, then OR terms (mandatory as a group only when present).
func Match(r *core.SearchResult, q ParsedQuery) bool {
	if !q.HasOperators {
		return true
	}

	text := SearchableText(r)

	for _, term := range q.NotTerms {
		if strings.Contains(text, fold(term)) {
			return false
		}
	}

	for _, term := range q.AndTerms {
		if !strings.Contains(text, fold(term)) {
			return false
		}
	}

	// Phrases are plain substrings, so they may match mid-word.
	for _, phrase := range q.ExactPhrases {
		if !strings.Contains(text, fold(phrase)) {
			return false
		}
	}

	if len(q.OrTerms) == 0 {
		return true
	}
	for _, term := range q.OrTerms {
		if strings.Contains(text, fold(term)) {
			return true
		}
	}
	return false
}

// SearchableText builds the lowercase text operators are evaluated against:
// name, content, description (when present) and tags.
func SearchableText(r *core.SearchResult) string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteByte(' ')
	b.WriteString(r.Content)
	if r.Description != "" {
		b.WriteByte(' ')
		b.WriteString(r.Description)
	}
	if len(r.Tags) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(r.Tags, " "))
	}
	return fold(b.String())
}
