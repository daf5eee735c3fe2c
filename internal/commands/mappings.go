package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMappingsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "List learned merchant-to-category mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappingsList(cmd.Context(), opts)
		},
	}

	cmd.AddCommand(newMappingsRemoveCommand(opts))

	return cmd
}

func newMappingsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <merchant>",
		Short: "Delete a learned mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappingsRemove(cmd.Context(), opts, args[0])
		},
	}
}

func runMappingsList(ctx context.Context, opts *rootOptions) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	mappings, err := p.store.Mappings(ctx)
	if err != nil {
		return err
	}
	if len(mappings) == 0 {
		fmt.Println("No learned mappings")
		return nil
	}

	fmt.Printf("%-40s %-20s %s\n", "PATTERN", "CATEGORY", "LEARNED")
	for _, m := range mappings {
		fmt.Printf("%-40s %-20s %s\n", m.MerchantPattern, m.Category, m.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func runMappingsRemove(ctx context.Context, opts *rootOptions, rawMerchant string) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	pattern := p.norm.Normalize(rawMerchant)
	removed, err := p.store.DeleteMapping(ctx, pattern)
	if err != nil {
		return fmt.Errorf("removing mapping: %w", err)
	}
	if !removed {
		return fmt.Errorf("no learned mapping for %s", pattern)
	}

	fmt.Printf("Removed mapping for %s\n", pattern)
	return nil
}
