package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rubiojr/seekr/pkg/core"
)

const resultColumns = `
	r.id, r.type, r.name, r.content, r.description, r.icon, r.color,
	r.projects, r.areas, r.processes, r.category, r.table_name, r.list_name,
	r.is_favorite, r.is_sensitive, r.use_count,
	r.last_used, r.created_at, r.updated_at,
	(SELECT json_group_array(tag) FROM (
		SELECT t.tag FROM result_tags t
		WHERE t.result_type = r.type AND t.result_id = r.id
		ORDER BY t.position
	)) AS tags`

const defaultOrder = "r.is_favorite DESC, r.updated_at DESC, r.id"

// SearchItems returns one page of results containing any word of query in
// their name, content, description or tags. Matching is a case-insensitive
// substring test; an empty query matches everything.
func (s *Store) SearchItems(ctx context.Context, query string, limit, offset int) ([]core.SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	where, args := keywordFilter(query)
	sqlQuery := "SELECT " + resultColumns + " FROM results r" + where +
		" ORDER BY " + defaultOrder + " LIMIT ? OFFSET ?"
	args = append(args, normalizeLimit(limit), max(offset, 0))

	results, err := s.queryResults(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return results, nil
}

// CountItems returns how many results SearchItems would page through.
func (s *Store) CountItems(ctx context.Context, query string) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	where, args := keywordFilter(query)

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results r"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// RecentItems returns the most recently updated results.
func (s *Store) RecentItems(ctx context.Context, limit int) ([]core.SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	results, err := s.queryResults(ctx, "SELECT "+resultColumns+` FROM results r
		ORDER BY COALESCE(r.updated_at, r.created_at) DESC, r.id DESC
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing recent items: %w", err)
	}
	return results, nil
}

// MostUsed returns results with the highest use count.
func (s *Store) MostUsed(ctx context.Context, limit int) ([]core.SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	results, err := s.queryResults(ctx, "SELECT "+resultColumns+` FROM results r
		WHERE r.use_count > 0
		ORDER BY r.use_count DESC, r.last_used DESC, r.id
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing most used items: %w", err)
	}
	return results, nil
}

// ItemsWithTags returns results carrying at least one tag.
func (s *Store) ItemsWithTags(ctx context.Context, limit int) ([]core.SearchResult, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	results, err := s.queryResults(ctx, "SELECT "+resultColumns+` FROM results r
		WHERE EXISTS (
			SELECT 1 FROM result_tags t
			WHERE t.result_type = r.type AND t.result_id = r.id AND t.tag != ''
		)
		ORDER BY `+defaultOrder+`
		LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("listing tagged items: %w", err)
	}
	return results, nil
}

// keywordFilter builds the WHERE clause matching any whitespace separated
// word of query.
func keywordFilter(query string) (string, []any) {
	words := keywords(query)
	if len(words) == 0 {
		return "", nil
	}

	conds := make([]string, len(words))
	args := make([]any, len(words))
	for i, w := range words {
		conds[i] = `r.search_text LIKE ? ESCAPE '\'`
		args[i] = "%" + escapeLike(w) + "%"
	}
	return " WHERE " + strings.Join(conds, " OR "), args
}

func keywords(query string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// normalizeLimit maps non-positive limits to SQLite's "no limit".
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]core.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	results := []core.SearchResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResult(rows *sql.Rows) (core.SearchResult, error) {
	var (
		r                             core.SearchResult
		typ                           string
		description, category         sql.NullString
		table, list                   sql.NullString
		projects, areas, processes    string
		tags                          sql.NullString
		lastUsed, createdAt, updateAt sql.NullTime
	)

	err := rows.Scan(
		&r.ID, &typ, &r.Name, &r.Content, &description, &r.Icon, &r.Color,
		&projects, &areas, &processes, &category, &table, &list,
		&r.IsFavorite, &r.IsSensitive, &r.UseCount,
		&lastUsed, &createdAt, &updateAt,
		&tags,
	)
	if err != nil {
		return r, fmt.Errorf("scanning row: %w", err)
	}

	r.Type = core.ResultType(typ)
	r.Description = description.String
	r.Category = category.String
	r.Table = table.String
	r.List = list.String

	for _, rel := range []struct {
		raw  string
		dest *[]string
	}{
		{projects, &r.Projects},
		{areas, &r.Areas},
		{processes, &r.Processes},
		{tags.String, &r.Tags},
	} {
		if err := decodeNames(rel.raw, rel.dest); err != nil {
			return r, fmt.Errorf("decoding result %s: %w", r.Key(), err)
		}
	}

	r.LastUsed = timePtr(lastUsed)
	r.CreatedAt = timePtr(createdAt)
	r.UpdatedAt = timePtr(updateAt)
	return r, nil
}

// decodeNames leaves dest nil for empty arrays.
func decodeNames(raw string, dest *[]string) error {
	if raw == "" || raw == "[]" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return err
	}
	if len(names) > 0 {
		*dest = names
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
