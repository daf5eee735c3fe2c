package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly category budgets",
	}

	cmd.AddCommand(newBudgetSetCommand(opts))
	cmd.AddCommand(newBudgetListCommand(opts))
	cmd.AddCommand(newBudgetRemoveCommand(opts))
	cmd.AddCommand(newBudgetStatusCommand(opts))

	return cmd
}

func newBudgetSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <monthly-limit>",
		Short: "Set the monthly limit for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBudgetSet(cmd.Context(), opts, args[0], args[1])
		},
	}
}

func newBudgetListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBudgetList(cmd.Context(), opts)
		},
	}
}

func newBudgetRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Delete the budget for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBudgetRemove(cmd.Context(), opts, args[0])
		},
	}
}

func newBudgetStatusCommand(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show spending against each budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBudgetStatus(cmd.Context(), opts, month)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to report, YYYY-MM (default: current month)")

	return cmd
}

func runBudgetSet(ctx context.Context, opts *rootOptions, category, rawLimit string) error {
	limit, err := decimal.NewFromString(rawLimit)
	if err != nil {
		return fmt.Errorf("invalid limit %q: %w", rawLimit, err)
	}
	if limit.Sign() <= 0 {
		return fmt.Errorf("limit must be positive, got %s", limit)
	}

	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.store.SetBudget(ctx, category, limit); err != nil {
		return err
	}

	fmt.Printf("Budget set: %s at %s/month\n", category, limit.StringFixed(2))
	return nil
}

func runBudgetList(ctx context.Context, opts *rootOptions) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	budgets, err := p.store.Budgets(ctx)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Println("No budgets set")
		return nil
	}

	fmt.Printf("%-20s %10s\n", "CATEGORY", "LIMIT")
	for _, b := range budgets {
		fmt.Printf("%-20s %10s\n", b.Category, b.MonthlyLimit.StringFixed(2))
	}
	return nil
}

func runBudgetRemove(ctx context.Context, opts *rootOptions, category string) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	removed, err := p.store.DeleteBudget(ctx, category)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no budget for %s", category)
	}

	fmt.Printf("Removed budget for %s\n", category)
	return nil
}

func runBudgetStatus(ctx context.Context, opts *rootOptions, month string) error {
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	statuses, err := p.store.BudgetStatuses(ctx, month)
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("No budgets set")
		return nil
	}

	fmt.Printf("Budget status for %s\n", month)
	fmt.Printf("%-20s %10s %10s %10s\n", "CATEGORY", "LIMIT", "SPENT", "REMAINING")
	for _, st := range statuses {
		marker := ""
		if st.Over {
			marker = "  OVER"
		}
		fmt.Printf("%-20s %10s %10s %10s%s\n",
			st.Category, st.MonthlyLimit.StringFixed(2), st.Spent.StringFixed(2),
			st.Remaining.StringFixed(2), marker)
	}
	return nil
}
