// Package stats records per-template usage counts and success rates. This is
// an explicit post-hoc write path, never invoked during extraction.
package stats

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/brouwerict/PDF2UBL/pkg/database"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS template_usage (
	template_id   TEXT PRIMARY KEY,
	usage_count   INTEGER NOT NULL DEFAULT 0,
	success_count INTEGER NOT NULL DEFAULT 0,
	last_used_at  TIMESTAMP
);`

// Usage is the recorded statistics for one template.
type Usage struct {
	TemplateID   string
	UsageCount   int
	SuccessCount int
	LastUsedAt   time.Time
}

// SuccessRate is successes over uses, 0 when unused.
func (u Usage) SuccessRate() float64 {
	if u.UsageCount == 0 {
		return 0
	}
	return float64(u.SuccessCount) / float64(u.UsageCount)
}

// Store persists template usage statistics in SQLite.
type Store struct {
	db     *database.DB
	logger *zap.Logger
}

// NewStore creates the store and its schema.
func NewStore(db *database.DB, logger *zap.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create usage schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// RecordUse increments the usage counter for the template, and the success
// counter when success is true.
func (s *Store) RecordUse(templateID string, success bool) error {
	successInc := 0
	if success {
		successInc = 1
	}
	return s.db.WithTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO template_usage (template_id, usage_count, success_count, last_used_at)
			VALUES (?, 1, ?, ?)
			ON CONFLICT(template_id) DO UPDATE SET
				usage_count = usage_count + 1,
				success_count = success_count + excluded.success_count,
				last_used_at = excluded.last_used_at`,
			templateID, successInc, time.Now())
		if err != nil {
			return fmt.Errorf("failed to record template use: %w", err)
		}
		return nil
	})
}

// Get returns the usage row for one template. A template that was never used
// yields a zero-count row.
func (s *Store) Get(templateID string) (Usage, error) {
	u := Usage{TemplateID: templateID}
	var last sql.NullTime
	err := s.db.QueryRow(`
		SELECT usage_count, success_count, last_used_at
		FROM template_usage WHERE template_id = ?`, templateID).
		Scan(&u.UsageCount, &u.SuccessCount, &last)
	if err == sql.ErrNoRows {
		return u, nil
	}
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read template usage: %w", err)
	}
	if last.Valid {
		u.LastUsedAt = last.Time
	}
	return u, nil
}

// All returns usage rows for every template ever recorded.
func (s *Store) All() ([]Usage, error) {
	rows, err := s.db.Query(`
		SELECT template_id, usage_count, success_count, last_used_at
		FROM template_usage ORDER BY template_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list template usage: %w", err)
	}
	defer rows.Close()

	var out []Usage
	for rows.Next() {
		var u Usage
		var last sql.NullTime
		if err := rows.Scan(&u.TemplateID, &u.UsageCount, &u.SuccessCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan template usage: %w", err)
		}
		if last.Valid {
			u.LastUsedAt = last.Time
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
