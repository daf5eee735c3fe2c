package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendview-dev/spendview/internal/audit"
	"github.com/spendview-dev/spendview/internal/importer"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string
	var directory string
	var clear bool
	var showStats bool

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank CSV exports",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && directory == "" {
				return fmt.Errorf("nothing to import: pass files or --directory")
			}
			return runImport(cmd.Context(), opts, args, format, directory, clear, showStats)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "bank CSV format: amex, applecard, or checking (required)")
	_ = cmd.MarkFlagRequired("format")
	cmd.Flags().StringVar(&directory, "directory", "", "import every CSV in a directory, moving files to processed/")
	cmd.Flags().BoolVar(&clear, "clear", false, "delete existing transactions first")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print statistics after importing")

	return cmd
}

func runImport(ctx context.Context, opts *rootOptions, files []string, format, directory string, clear, showStats bool) error {
	p, err := openProject(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	runID := audit.NewRunID()

	if clear {
		count, err := p.store.TransactionCount(ctx)
		if err != nil {
			return err
		}
		if err := p.store.ClearTransactions(ctx); err != nil {
			return fmt.Errorf("clearing transactions: %w", err)
		}
		fmt.Printf("Cleared %d existing transactions\n", count)
		p.audit(audit.Entry{
			Timestamp: time.Now().UTC(),
			RunID:     runID,
			Action:    "clear",
			Count:     count,
		})
	}

	engine, err := p.engine(ctx)
	if err != nil {
		return err
	}
	svc := importer.NewService(importer.DefaultRegistry(), p.norm, engine, p.store, p.log)

	var results []importer.Result
	for _, f := range files {
		res, err := svc.ImportFile(ctx, f, format)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	if directory != "" {
		dirResults, err := svc.ImportDir(ctx, directory, format)
		if err != nil {
			return err
		}
		results = append(results, dirResults...)
	}

	total := 0
	entries := make([]audit.Entry, 0, len(results))
	for _, res := range results {
		line := fmt.Sprintf("%s: imported %d transactions", filepath.Base(res.File), res.Imported)
		if res.Skipped > 0 {
			line += fmt.Sprintf(" (%d rows skipped)", res.Skipped)
		}
		fmt.Println(line)
		total += res.Imported

		entries = append(entries, audit.Entry{
			Timestamp: time.Now().UTC(),
			RunID:     runID,
			Action:    "import",
			Count:     res.Imported,
			Details:   fmt.Sprintf("file=%s format=%s skipped=%d", filepath.Base(res.File), res.Format, res.Skipped),
		})
	}
	if len(results) > 1 {
		fmt.Printf("Total: %d transactions from %d files\n", total, len(results))
	}
	if len(entries) > 0 {
		p.audit(entries...)
	}

	if showStats {
		fmt.Println()
		return printStats(ctx, p)
	}
	return nil
}
