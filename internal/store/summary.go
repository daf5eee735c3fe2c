package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is the income and spending recorded in one month.
// Amounts are summed in Go so decimal precision survives aggregation.
type MonthlySummary struct {
	Month    string // "2006-01"
	Expenses decimal.Decimal
	Credits  decimal.Decimal
	Net      decimal.Decimal // credits minus expenses
}

// CategoryTotal is the net amount and row count for one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    decimal.Decimal
}

// AccountTotal is the activity recorded for one account.
type AccountTotal struct {
	AccountName string
	AccountType string
	Count       int
	Expenses    decimal.Decimal
	Credits     decimal.Decimal
}

// MonthlySummaries aggregates all dated transactions by month, oldest
// first. Undated rows are left out.
func (s *Store) MonthlySummaries(ctx context.Context) ([]MonthlySummary, error) {
	txns, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlySummary)
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		month := t.Date.Format("2006-01")
		ms, ok := byMonth[month]
		if !ok {
			ms = &MonthlySummary{Month: month}
			byMonth[month] = ms
		}
		if t.IsExpense() {
			ms.Expenses = ms.Expenses.Add(t.Amount)
		} else {
			ms.Credits = ms.Credits.Add(t.Amount.Neg())
		}
	}

	summaries := make([]MonthlySummary, 0, len(byMonth))
	for _, ms := range byMonth {
		ms.Net = ms.Credits.Sub(ms.Expenses)
		summaries = append(summaries, *ms)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Month < summaries[j].Month
	})
	return summaries, nil
}

// CategoryTotals aggregates net amounts by category, largest total
// first. A non-empty month of the form "2006-01" limits the range.
func (s *Store) CategoryTotals(ctx context.Context, month string) ([]CategoryTotal, error) {
	txns, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*CategoryTotal)
	for _, t := range txns {
		if month != "" && (t.Date.IsZero() || t.Date.Format("2006-01") != month) {
			continue
		}
		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCategory[t.Category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(t.Amount)
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Total.Equal(totals[j].Total) {
			return totals[i].Total.GreaterThan(totals[j].Total)
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

// AccountTotals aggregates activity per account, ordered by account
// name.
func (s *Store) AccountTotals(ctx context.Context) ([]AccountTotal, error) {
	txns, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ name, typ string }
	byAccount := make(map[key]*AccountTotal)
	for _, t := range txns {
		k := key{t.AccountName, t.AccountType}
		at, ok := byAccount[k]
		if !ok {
			at = &AccountTotal{AccountName: t.AccountName, AccountType: t.AccountType}
			byAccount[k] = at
		}
		at.Count++
		if t.IsExpense() {
			at.Expenses = at.Expenses.Add(t.Amount)
		} else {
			at.Credits = at.Credits.Add(t.Amount.Neg())
		}
	}

	totals := make([]AccountTotal, 0, len(byAccount))
	for _, at := range byAccount {
		totals = append(totals, *at)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].AccountName < totals[j].AccountName
	})
	return totals, nil
}

// DateRange returns the earliest and latest transaction dates. Both are
// zero when no dated transactions exist.
func (s *Store) DateRange(ctx context.Context) (time.Time, time.Time, error) {
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(date), MAX(date) FROM transactions WHERE date <> ''",
	).Scan(&first, &last)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("querying date range: %w", err)
	}
	return parseDate(first.String), parseDate(last.String), nil
}
