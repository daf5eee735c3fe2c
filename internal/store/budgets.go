package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spendview-dev/spendview/internal/model"
)

// BudgetStatus pairs a budget with the spending charged against it in
// one month.
type BudgetStatus struct {
	model.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Over      bool
}

// SetBudget creates or updates the monthly limit for a category.
func (s *Store) SetBudget(ctx context.Context, category string, limit decimal.Decimal) error {
	query := `
		INSERT INTO budgets (category, monthly_limit, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			monthly_limit = excluded.monthly_limit,
			updated_at = excluded.updated_at
	`
	ts := now()
	if _, err := s.db.ExecContext(ctx, query, category, limit.String(), ts, ts); err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}
	return nil
}

// Budgets returns all budgets ordered by category.
func (s *Store) Budgets(ctx context.Context) ([]model.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, monthly_limit, created_at, updated_at
		FROM budgets
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("querying budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		var b model.Budget
		var limit, created, updated string
		if err := rows.Scan(&b.Category, &limit, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		if b.MonthlyLimit, err = parseAmount(limit); err != nil {
			return nil, err
		}
		b.CreatedAt = parseTime(created)
		b.UpdatedAt = parseTime(updated)
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes the budget for a category. Returns false when no
// budget existed.
func (s *Store) DeleteBudget(ctx context.Context, category string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE category = ?", category)
	if err != nil {
		return false, fmt.Errorf("deleting budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted rows: %w", err)
	}
	return n > 0, nil
}

// Money movement categories never count as spending against a budget.
var nonSpending = map[string]struct{}{
	"Transfer": {},
	"Payment":  {},
	"Income":   {},
}

// BudgetStatuses reports every budget against the expenses recorded in
// the given month, formatted as "2006-01". Credits do not reduce
// spending, and transfer-style categories are not spending at all.
func (s *Store) BudgetStatuses(ctx context.Context, month string) ([]BudgetStatus, error) {
	budgets, err := s.Budgets(ctx)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	txns, err := s.TransactionsByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		if _, ok := nonSpending[t.Category]; ok {
			continue
		}
		spent[t.Category] = spent[t.Category].Add(t.Amount)
	}

	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st := BudgetStatus{Budget: b, Spent: spent[b.Category]}
		st.Remaining = b.MonthlyLimit.Sub(st.Spent)
		st.Over = st.Remaining.Sign() < 0
		statuses = append(statuses, st)
	}
	return statuses, nil
}
