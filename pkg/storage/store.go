// Package storage persists search results in SQLite and answers the keyword
// and seed queries the search pipeline issues.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rubiojr/seekr/pkg/core"
	"github.com/rubiojr/seekr/pkg/db"
	"github.com/rubiojr/seekr/pkg/log"
)

// ErrClosed is returned by every operation on a closed Store.
var ErrClosed = errors.New("storage: store is closed")

var logger = log.ForService("storage")

// Store is a SQLite backed result store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := db.InitializeDatabase(ctx, conn); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	logger.Debugf("opened %s", path)
	return &Store{db: conn, path: path}, nil
}

// OpenDB opens the database at path with the connection pragmas applied but
// without touching the schema. The migrate command inspects databases this
// way.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			closeQuietly(conn)
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	return conn, nil
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logger.Warnf("failed to close database: %v", err)
	}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying connection, used by the migrate command.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Upsert inserts or replaces results, keyed by (type, id), in one
// transaction. Tags are rewritten in the given order.
func (s *Store) Upsert(ctx context.Context, results ...core.SearchResult) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (
			id, type, name, content, description, icon, color,
			projects, areas, processes, category, table_name, list_name,
			is_favorite, is_sensitive, use_count,
			last_used, created_at, updated_at, search_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (type, id) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			description = excluded.description,
			icon = excluded.icon,
			color = excluded.color,
			projects = excluded.projects,
			areas = excluded.areas,
			processes = excluded.processes,
			category = excluded.category,
			table_name = excluded.table_name,
			list_name = excluded.list_name,
			is_favorite = excluded.is_favorite,
			is_sensitive = excluded.is_sensitive,
			use_count = excluded.use_count,
			last_used = excluded.last_used,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			search_text = excluded.search_text
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logger.Warnf("failed to close statement: %v", err)
		}
	}()

	for _, r := range results {
		if r.Type == "" {
			r.Type = core.TypeItem
		}
		if r.UseCount < 0 {
			return fmt.Errorf("result %s: negative use count %d", r.Key(), r.UseCount)
		}

		projects, areas, processes, err := marshalRelations(&r)
		if err != nil {
			return fmt.Errorf("encoding relations of %s: %w", r.Key(), err)
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, string(r.Type), r.Name, r.Content, nullString(r.Description),
			r.Icon, r.Color,
			projects, areas, processes,
			nullString(r.Category), nullString(r.Table), nullString(r.List),
			r.IsFavorite, r.IsSensitive, r.UseCount,
			nullTime(r.LastUsed), nullTime(r.CreatedAt), nullTime(r.UpdatedAt),
			searchText(&r),
		)
		if err != nil {
			return fmt.Errorf("upserting result %s: %w", r.Key(), err)
		}

		if err := replaceTags(ctx, tx, &r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	committed = true
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, r *core.SearchResult) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM result_tags WHERE result_type = ? AND result_id = ?", string(r.Type), r.ID); err != nil {
		return fmt.Errorf("clearing tags of %s: %w", r.Key(), err)
	}
	for pos, tag := range r.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO result_tags (result_type, result_id, position, tag) VALUES (?, ?, ?, ?)",
			string(r.Type), r.ID, pos, tag); err != nil {
			return fmt.Errorf("inserting tag %q of %s: %w", tag, r.Key(), err)
		}
	}
	return nil
}

// Delete removes the result identified by key and its tags.
func (s *Store) Delete(ctx context.Context, key core.Key) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Warnf("failed to rollback transaction: %v", err)
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM result_tags WHERE result_type = ? AND result_id = ?", string(key.Type), key.ID); err != nil {
		return fmt.Errorf("deleting tags of %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM results WHERE type = ? AND id = ?", string(key.Type), key.ID); err != nil {
		return fmt.Errorf("deleting result %s: %w", key, err)
	}
	return tx.Commit()
}

// Stats summarizes the whole store.
func (s *Store) Stats(ctx context.Context) (core.Stats, error) {
	var stats core.Stats
	if err := s.checkOpen(); err != nil {
		return stats, err
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(projects != '[]'), 0),
			COALESCE(SUM(areas != '[]'), 0),
			COALESCE(SUM(COALESCE(table_name, '') != ''), 0),
			COALESCE(SUM(processes != '[]'), 0),
			COALESCE(SUM(COALESCE(category, '') != ''), 0),
			COALESCE(SUM(is_favorite), 0)
		FROM results
	`).Scan(&stats.Total, &stats.WithProjects, &stats.WithAreas, &stats.WithTables,
		&stats.WithProcesses, &stats.WithCategories, &stats.Favorites)
	if err != nil {
		return stats, fmt.Errorf("counting results: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT tag) FROM result_tags WHERE tag != ''").Scan(&stats.UniqueTags)
	if err != nil {
		return stats, fmt.Errorf("counting tags: %w", err)
	}
	return stats, nil
}

func marshalRelations(r *core.SearchResult) (string, string, string, error) {
	var out [3]string
	for i, names := range [][]string{r.Projects, r.Areas, r.Processes} {
		if names == nil {
			names = []string{}
		}
		data, err := json.Marshal(names)
		if err != nil {
			return "", "", "", err
		}
		out[i] = string(data)
	}
	return out[0], out[1], out[2], nil
}

// searchText is the lowercase haystack the keyword pre-filter runs LIKE
// against.
func searchText(r *core.SearchResult) string {
	parts := []string{r.Name, r.Content}
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	parts = append(parts, r.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullTime stores timestamps as UTC with second precision so that text
// ordering matches time ordering.
func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Truncate(time.Second)
}
