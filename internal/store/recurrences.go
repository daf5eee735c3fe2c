package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spendview-dev/spendview/internal/model"
)

// ReplaceRecurrences persists the outcome of a detection run. Every
// existing record is deactivated first, then the given records are
// upserted as active, all in one database transaction. A pattern that
// stopped qualifying therefore survives only as an inactive row.
func (s *Store) ReplaceRecurrences(ctx context.Context, recs []model.RecurrenceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning recurrence update: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	if _, err := tx.ExecContext(ctx,
		"UPDATE recurring_transactions SET is_active = 0, updated_at = ?", ts); err != nil {
		return fmt.Errorf("deactivating recurrences: %w", err)
	}

	upsert := `
		INSERT INTO recurring_transactions
		(merchant_pattern, category, frequency, average_amount, last_amount,
		 last_date, occurrence_count, amount_variance, is_active,
		 is_subscription, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT(merchant_pattern) DO UPDATE SET
			category = excluded.category,
			frequency = excluded.frequency,
			average_amount = excluded.average_amount,
			last_amount = excluded.last_amount,
			last_date = excluded.last_date,
			occurrence_count = excluded.occurrence_count,
			amount_variance = excluded.amount_variance,
			is_active = 1,
			is_subscription = excluded.is_subscription,
			updated_at = excluded.updated_at
	`
	for _, r := range recs {
		if _, err := tx.ExecContext(ctx, upsert,
			r.MerchantPattern,
			r.Category,
			string(r.Frequency),
			r.AverageAmount.String(),
			r.LastAmount.String(),
			formatDate(r.LastDate),
			r.OccurrenceCount,
			r.AmountVariance.String(),
			r.IsSubscription,
			ts,
			ts,
		); err != nil {
			return fmt.Errorf("saving recurrence %s: %w", r.MerchantPattern, err)
		}
	}
	return tx.Commit()
}

// Recurrences returns stored recurrence records ordered by merchant
// pattern, optionally limited to active ones.
func (s *Store) Recurrences(ctx context.Context, activeOnly bool) ([]model.RecurrenceRecord, error) {
	query := `
		SELECT merchant_pattern, category, frequency, average_amount,
		       last_amount, last_date, occurrence_count, amount_variance,
		       is_active, is_subscription
		FROM recurring_transactions
	`
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY merchant_pattern"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying recurrences: %w", err)
	}
	defer rows.Close()

	var recs []model.RecurrenceRecord
	for rows.Next() {
		r, err := scanRecurrence(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// SetRecurrenceActive flips the active flag on one recurrence record.
// Returns false when no record exists for the pattern.
func (s *Store) SetRecurrenceActive(ctx context.Context, pattern string, active bool) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET is_active = ?, updated_at = ?
		WHERE merchant_pattern = ?
	`, active, now(), pattern)
	if err != nil {
		return false, fmt.Errorf("updating recurrence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting updated rows: %w", err)
	}
	return n > 0, nil
}

func scanRecurrence(rows *sql.Rows) (model.RecurrenceRecord, error) {
	var (
		r        model.RecurrenceRecord
		freq     string
		avg      string
		last     string
		lastDate string
		variance string
	)
	if err := rows.Scan(
		&r.MerchantPattern, &r.Category, &freq, &avg, &last, &lastDate,
		&r.OccurrenceCount, &variance, &r.IsActive, &r.IsSubscription,
	); err != nil {
		return r, fmt.Errorf("scanning recurrence: %w", err)
	}

	f, err := model.ParseFrequency(freq)
	if err != nil {
		return r, err
	}
	r.Frequency = f
	r.LastDate = parseDate(lastDate)

	if r.AverageAmount, err = parseAmount(avg); err != nil {
		return r, err
	}
	if r.LastAmount, err = parseAmount(last); err != nil {
		return r, err
	}
	if r.AmountVariance, err = parseAmount(variance); err != nil {
		return r, err
	}
	return r, nil
}
