package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transaction statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			defer p.Close()
			return printStats(cmd.Context(), p)
		},
	}
}

func printStats(ctx context.Context, p *project) error {
	count, err := p.store.TransactionCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("No transactions")
		return nil
	}

	first, last, err := p.store.DateRange(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d transactions", count)
	if !first.IsZero() {
		fmt.Printf(" from %s to %s", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	fmt.Println()

	months, err := p.store.MonthlySummaries(ctx)
	if err != nil {
		return err
	}
	if len(months) > 0 {
		fmt.Println("\nMonthly summary")
		fmt.Printf("%-10s %12s %12s %12s\n", "MONTH", "EXPENSES", "CREDITS", "NET")
		for _, m := range months {
			fmt.Printf("%-10s %12s %12s %12s\n",
				m.Month, m.Expenses.StringFixed(2), m.Credits.StringFixed(2), m.Net.StringFixed(2))
		}
	}

	categories, err := p.store.CategoryTotals(ctx, "")
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		fmt.Println("\nSpending by category")
		fmt.Printf("%-20s %6s %12s\n", "CATEGORY", "COUNT", "TOTAL")
		for _, c := range categories {
			fmt.Printf("%-20s %6d %12s\n", c.Category, c.Count, c.Total.StringFixed(2))
		}
	}

	accounts, err := p.store.AccountTotals(ctx)
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		fmt.Println("\nAccounts")
		fmt.Printf("%-25s %-12s %6s %12s %12s\n", "ACCOUNT", "TYPE", "COUNT", "EXPENSES", "CREDITS")
		for _, a := range accounts {
			fmt.Printf("%-25s %-12s %6d %12s %12s\n",
				a.AccountName, a.AccountType, a.Count,
				a.Expenses.StringFixed(2), a.Credits.StringFixed(2))
		}
	}
	return nil
}
