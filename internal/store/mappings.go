package store

import (
	"context"
	"fmt"

	"github.com/spendview-dev/spendview/internal/model"
)

// Teach upserts a learned mapping from merchant pattern to category and
// relabels every stored transaction with that exact pattern. Both writes
// happen in one database transaction. The returned count is the number
// of transactions whose category actually changed, so teaching the same
// pair twice returns zero the second time.
func (s *Store) Teach(ctx context.Context, pattern, category string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning teach: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO category_mappings (merchant_pattern, category, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(merchant_pattern) DO UPDATE SET
			category = excluded.category
	`
	if _, err := tx.ExecContext(ctx, upsert, pattern, category, now()); err != nil {
		return 0, fmt.Errorf("saving mapping: %w", err)
	}

	relabel := `
		UPDATE transactions
		SET category = ?
		WHERE merchant_pattern = ?
		  AND (category IS NULL OR category <> ?)
	`
	res, err := tx.ExecContext(ctx, relabel, category, pattern, category)
	if err != nil {
		return 0, fmt.Errorf("relabeling transactions: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting relabeled rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing teach: %w", err)
	}
	return updated, nil
}

// LearnedMappings returns all learned mappings keyed by merchant
// pattern, the shape the categorization engine consumes.
func (s *Store) LearnedMappings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT merchant_pattern, category FROM category_mappings")
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	learned := make(map[string]string)
	for rows.Next() {
		var pattern, category string
		if err := rows.Scan(&pattern, &category); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		learned[pattern] = category
	}
	return learned, rows.Err()
}

// Mappings returns all learned mappings ordered by merchant pattern.
func (s *Store) Mappings(ctx context.Context) ([]model.LearnedMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT merchant_pattern, category, created_at
		FROM category_mappings
		ORDER BY merchant_pattern
	`)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	var mappings []model.LearnedMapping
	for rows.Next() {
		var m model.LearnedMapping
		var created string
		if err := rows.Scan(&m.MerchantPattern, &m.Category, &created); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		m.CreatedAt = parseTime(created)
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// DeleteMapping removes a learned mapping. Already-relabeled
// transactions keep their categories. Returns false when no mapping
// existed for the pattern.
func (s *Store) DeleteMapping(ctx context.Context, pattern string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM category_mappings WHERE merchant_pattern = ?", pattern)
	if err != nil {
		return false, fmt.Errorf("deleting mapping: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted rows: %w", err)
	}
	return n > 0, nil
}
