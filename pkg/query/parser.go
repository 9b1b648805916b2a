// Package query turns free-form search box text into a structured boolean
// query and re-evaluates that query against already fetched candidates.
//
// Supported syntax:
//
//	"exact phrase"   phrase must appear (case-insensitive substring)
//	-word, NOT word  word must not appear
//	+word, AND word  word must appear
//	|word, OR word   at least one OR word must appear
//
// Anything that does not parse as an operator is kept as a plain word, so
// parsing never fails.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// word matches a bare word: letters, digits and underscores in any script.
const word = `([\p{L}\p{N}_]+)`

// Extraction order is fixed; a span consumed by one step is never seen by
// the next one.
var (
	phrasePattern = regexp.MustCompile(`"([^"]+)"`)
	notPattern    = regexp.MustCompile(`(?i)(?:\bNOT\s+|-)` + word)
	andPattern    = regexp.MustCompile(`(?i)(?:\bAND\s+|\+)` + word)
	orPattern     = regexp.MustCompile(`(?i)(?:\bOR\s+|\|)` + word)
)

// ParsedQuery is the immutable result of parsing one raw input string.
type ParsedQuery struct {
	// Raw is the trimmed input.
	Raw string `json:"raw"`

	// BaseQuery is the plain text handed to the storage backend. Without
	// operators it equals Raw. With operators it is the space-joined
	// residual terms, AND terms, OR terms and exact phrases; NOT terms are
	// left out since the backend should not search for excluded text.
	BaseQuery string `json:"base_query"`

	// Terms are the residual bare words left after operator extraction.
	Terms []string `json:"terms,omitempty"`

	AndTerms     []string `json:"and_terms,omitempty"`
	OrTerms      []string `json:"or_terms,omitempty"`
	NotTerms     []string `json:"not_terms,omitempty"`
	ExactPhrases []string `json:"exact_phrases,omitempty"`

	// HasOperators is true iff any of the operator lists is non-empty.
	HasOperators bool `json:"has_operators"`
}

// IsEmpty reports whether the query carries no search text at all.
func (q ParsedQuery) IsEmpty() bool {
	return q.BaseQuery == "" && !q.HasOperators
}

// String renders a compact description used in debug logs.
func (q ParsedQuery) String() string {
	return fmt.Sprintf("base=%q and=%v or=%v not=%v phrases=%q operators=%t",
		q.BaseQuery, q.AndTerms, q.OrTerms, q.NotTerms, q.ExactPhrases, q.HasOperators)
}

// Parse tokenizes raw into a ParsedQuery. It is a pure function.
func Parse(raw string) ParsedQuery {
	trimmed := strings.TrimSpace(raw)
	parsed := ParsedQuery{
		Raw:       trimmed,
		BaseQuery: trimmed,
	}
	if trimmed == "" {
		return parsed
	}

	rest := trimmed

	for _, m := range phrasePattern.FindAllStringSubmatch(rest, -1) {
		if phrase := strings.TrimSpace(m[1]); phrase != "" {
			parsed.ExactPhrases = append(parsed.ExactPhrases, phrase)
		}
	}
	rest = phrasePattern.ReplaceAllString(rest, " ")

	parsed.NotTerms, rest = extract(notPattern, rest)
	parsed.AndTerms, rest = extract(andPattern, rest)
	parsed.OrTerms, rest = extract(orPattern, rest)
	parsed.Terms = strings.Fields(rest)

	parsed.HasOperators = len(parsed.ExactPhrases) > 0 ||
		len(parsed.NotTerms) > 0 ||
		len(parsed.AndTerms) > 0 ||
		len(parsed.OrTerms) > 0

	if parsed.HasOperators {
		all := make([]string, 0, len(parsed.Terms)+len(parsed.AndTerms)+len(parsed.OrTerms)+len(parsed.ExactPhrases))
		all = append(all, parsed.Terms...)
		all = append(all, parsed.AndTerms...)
		all = append(all, parsed.OrTerms...)
		all = append(all, parsed.ExactPhrases...)
		parsed.BaseQuery = strings.Join(all, " ")
	}

	return parsed
}

// extract collects the lowercased word captured by every match of re and
// returns the text with those matches blanked out.
func extract(re *regexp.Regexp, text string) ([]string, string) {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, text
	}

	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		terms = append(terms, fold(m[1]))
	}
	return terms, re.ReplaceAllString(text, " ")
}

// fold lowercases s using Unicode-aware case mapping. Casers are stateful,
// so a fresh one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
