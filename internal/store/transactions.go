package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spendview-dev/spendview/internal/model"
)

const transactionColumns = `id, date, description, merchant, merchant_pattern,
	category, amount, account_type, account_name, transaction_type`

// InsertTransactions appends a batch of transactions atomically.
func (s *Store) InsertTransactions(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions
		(date, description, merchant, merchant_pattern, category, amount,
		 account_type, account_name, transaction_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	created := now()
	for _, t := range txns {
		if _, err := tx.ExecContext(ctx, query,
			formatDate(t.Date),
			t.Description,
			t.Merchant,
			t.MerchantPattern,
			t.Category,
			t.Amount.String(),
			t.AccountType,
			t.AccountName,
			t.TransactionType,
			created,
		); err != nil {
			return fmt.Errorf("inserting transaction: %w", err)
		}
	}
	return tx.Commit()
}

// Transactions returns every transaction ordered by date then insertion.
func (s *Store) Transactions(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY date ASC, id ASC
	`
	return s.queryTransactions(ctx, query)
}

// TransactionsByMonth returns the transactions whose date falls in the
// given month, formatted as "2006-01".
func (s *Store) TransactionsByMonth(ctx context.Context, month string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE substr(date, 1, 7) = ?
		ORDER BY date ASC, id ASC
	`
	return s.queryTransactions(ctx, query, month)
}

// TransactionCount returns the number of stored transactions.
func (s *Store) TransactionCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return count, nil
}

// ClearTransactions deletes all transactions, leaving learned mappings,
// recurring records, and budgets in place.
func (s *Store) ClearTransactions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}
	return nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		t        model.Transaction
		date     string
		category sql.NullString
		amount   string
	)
	if err := rows.Scan(
		&t.ID, &date, &t.Description, &t.Merchant, &t.MerchantPattern,
		&category, &amount, &t.AccountType, &t.AccountName, &t.TransactionType,
	); err != nil {
		return t, fmt.Errorf("scanning transaction: %w", err)
	}

	t.Date = parseDate(date)
	t.Category = category.String
	amt, err := parseAmount(amount)
	if err != nil {
		return t, err
	}
	t.Amount = amt
	return t, nil
}
