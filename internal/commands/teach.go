package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendview-dev/spendview/internal/audit"
)

func newTeachCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teach <merchant> <category>",
		Short: "Learn a merchant-to-category mapping and relabel history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTeach(cmd.Context(), opts, args[0], args[1])
		},
	}

	return cmd
}

func runTeach(ctx context.Context, opts *rootOptions, rawMerchant, category string) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	pattern := p.norm.Normalize(rawMerchant)
	if pattern == "" {
		return fmt.Errorf("merchant %q normalizes to an empty pattern", rawMerchant)
	}

	previous, err := p.store.LearnedMappings(ctx)
	if err != nil {
		return err
	}

	count, err := p.store.Teach(ctx, pattern, category)
	if err != nil {
		return fmt.Errorf("teaching %s: %w", pattern, err)
	}

	msg := fmt.Sprintf("Learned %s -> %s (%d transactions relabeled)", pattern, category, count)
	if prev, ok := previous[pattern]; ok && prev != category {
		msg += fmt.Sprintf(", replacing %s", prev)
	}
	fmt.Println(msg)

	p.audit(audit.Entry{
		Timestamp: time.Now().UTC(),
		RunID:     audit.NewRunID(),
		Action:    "teach",
		Pattern:   pattern,
		Count:     int(count),
		Details:   "category=" + category,
	})
	return nil
}
