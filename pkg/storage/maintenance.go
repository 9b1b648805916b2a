package storage

import (
	"context"
	"fmt"
)

// WALCheckpoint truncates the write-ahead log.
func (s *Store) WALCheckpoint(ctx context.Context) error {
	return s.exec(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
}

// Optimize runs SQLite's PRAGMA optimize.
func (s *Store) Optimize(ctx context.Context) error {
	return s.exec(ctx, "PRAGMA optimize")
}

// Analyze refreshes the query planner statistics.
func (s *Store) Analyze(ctx context.Context) error {
	return s.exec(ctx, "ANALYZE")
}

// Vacuum rebuilds the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	return s.exec(ctx, "VACUUM")
}

// IntegrityCheck returns the problems reported by PRAGMA integrity_check
// and PRAGMA foreign_key_check. An empty slice means the database is sound.
func (s *Store) IntegrityCheck(ctx context.Context) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var problems []string
	rows, err := s.db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("running integrity check: %w", err)
	}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("reading integrity check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	var orphans int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM result_tags t
		LEFT JOIN results r ON r.type = t.result_type AND r.id = t.result_id
		WHERE r.id IS NULL
	`).Scan(&orphans)
	if err != nil {
		return nil, fmt.Errorf("checking orphaned tags: %w", err)
	}
	if orphans > 0 {
		problems = append(problems, fmt.Sprintf("%d orphaned tag rows", orphans))
	}
	return problems, nil
}

func (s *Store) exec(ctx context.Context, stmt string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("running %s: %w", stmt, err)
	}
	return nil
}
