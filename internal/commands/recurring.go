package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendview-dev/spendview/internal/audit"
	"github.com/spendview-dev/spendview/internal/model"
	"github.com/spendview-dev/spendview/internal/recurring"
)

func newRecurringCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring payment detection",
	}

	cmd.AddCommand(newRecurringDetectCommand(opts))
	cmd.AddCommand(newRecurringListCommand(opts))
	cmd.AddCommand(newRecurringDeactivateCommand(opts))

	return cmd
}

func newRecurringDetectCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring payments from transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecurringDetect(cmd.Context(), opts)
		},
	}
}

func newRecurringListCommand(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show stored recurrence records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecurringList(cmd.Context(), opts, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include deactivated records")

	return cmd
}

func newRecurringDeactivateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <merchant>",
		Short: "Deactivate a stored recurrence record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecurringDeactivate(cmd.Context(), opts, args[0])
		},
	}
}

func runRecurringDetect(ctx context.Context, opts *rootOptions) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	txns, err := p.store.Transactions(ctx)
	if err != nil {
		return err
	}

	detector := recurring.New(p.norm, p.cfg.DetectorConfig())
	result := detector.Detect(txns)

	if err := p.store.ReplaceRecurrences(ctx, result.Records); err != nil {
		return fmt.Errorf("saving recurrence records: %w", err)
	}

	if len(result.Records) == 0 {
		fmt.Println("No recurring payments detected")
	} else {
		printRecurrences(result.Records)
	}
	if result.Skipped > 0 {
		fmt.Printf("Skipped %d undated transactions\n", result.Skipped)
	}

	p.audit(audit.Entry{
		Timestamp: time.Now().UTC(),
		RunID:     audit.NewRunID(),
		Action:    "detect",
		Count:     len(result.Records),
		Details:   fmt.Sprintf("skipped=%d", result.Skipped),
	})
	return nil
}

func runRecurringList(ctx context.Context, opts *rootOptions, all bool) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	recs, err := p.store.Recurrences(ctx, !all)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No recurrence records")
		return nil
	}

	printRecurrences(recs)
	return nil
}

func runRecurringDeactivate(ctx context.Context, opts *rootOptions, rawMerchant string) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	pattern := p.norm.Normalize(rawMerchant)
	ok, err := p.store.SetRecurrenceActive(ctx, pattern, false)
	if err != nil {
		return fmt.Errorf("deactivating %s: %w", pattern, err)
	}
	if !ok {
		return fmt.Errorf("no recurrence record for %s", pattern)
	}

	fmt.Printf("Deactivated %s\n", pattern)
	return nil
}

var hundred = decimal.NewFromInt(100)

func printRecurrences(recs []model.RecurrenceRecord) {
	fmt.Printf("%-35s %-15s %-10s %10s %10s  %-10s %5s\n",
		"PATTERN", "CATEGORY", "FREQUENCY", "AVG", "LAST", "LAST DATE", "COUNT")
	for _, r := range recs {
		flags := ""
		if r.IsSubscription {
			flags += "  [subscription]"
		}
		if r.ChangeAlert {
			flags += fmt.Sprintf("  [price change %s%%]", r.ChangePct.Mul(hundred).StringFixed(1))
		}
		if !r.IsActive {
			flags += "  [inactive]"
		}
		fmt.Printf("%-35s %-15s %-10s %10s %10s  %-10s %5d%s\n",
			r.MerchantPattern, r.Category, r.Frequency,
			r.AverageAmount.StringFixed(2), r.LastAmount.StringFixed(2),
			r.LastDate.Format("2006-01-02"), r.OccurrenceCount, flags)
	}
}
