package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendview-dev/spendview/internal/category"
	"github.com/spendview-dev/spendview/internal/merchant"
	"github.com/spendview-dev/spendview/internal/model"
)

// TransactionStore persists imported transactions.
type TransactionStore interface {
	InsertTransactions(ctx context.Context, txns []model.Transaction) error
}

// Service parses bank CSV files, enriches each row with its merchant
// pattern and category, and saves the result.
type Service struct {
	registry *Registry
	norm     *merchant.Normalizer
	engine   *category.Engine
	store    TransactionStore
	log      zerolog.Logger
}

// Result summarizes one imported file.
type Result struct {
	File     string
	Format   string
	Imported int
	Skipped  int
}

// NewService creates an import Service.
func NewService(registry *Registry, norm *merchant.Normalizer, engine *category.Engine, store TransactionStore, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		norm:     norm,
		engine:   engine,
		store:    store,
		log:      log,
	}
}

// ImportFile parses one CSV file with the named format and saves its
// transactions.
func (s *Service) ImportFile(ctx context.Context, path, format string) (Result, error) {
	if format == "" {
		return Result{}, fmt.Errorf("format is required (supported: %s)", strings.Join(s.registry.Formats(), ", "))
	}
	parser := s.registry.Get(format)
	if parser == nil {
		return Result{}, fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(s.registry.Formats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, skipped, err := parser.Parse(f)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	txns := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		txns = append(txns, s.enrich(rec))
	}
	if err := s.store.InsertTransactions(ctx, txns); err != nil {
		return Result{}, fmt.Errorf("saving transactions: %w", err)
	}

	s.log.Info().
		Str("file", filepath.Base(path)).
		Str("format", format).
		Int("count", len(txns)).
		Int("skipped", skipped).
		Msg("imported transactions")

	return Result{File: path, Format: format, Imported: len(txns), Skipped: skipped}, nil
}

// ImportDir imports every CSV in dir with the named format, moving
// each file to dir/processed/ once saved.
func (s *Service) ImportDir(ctx context.Context, dir, format string) ([]Result, error) {
	files, err := Scan(dir)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, f := range files {
		res, err := s.ImportFile(ctx, f.Path, format)
		if err != nil {
			return results, fmt.Errorf("importing %s: %w", f.Name, err)
		}
		if err := MarkProcessed(dir, f.Name); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// enrich turns a parsed bank row into a stored transaction: the
// merchant pattern comes from the merchant column when the format has
// one, otherwise from the description.
func (s *Service) enrich(rec model.BankRecord) model.Transaction {
	source := rec.Merchant
	if source == "" {
		source = rec.Description
	}
	pattern := s.norm.Normalize(source)

	return model.Transaction{
		Date:            rec.Date,
		Description:     rec.Description,
		Merchant:        rec.Merchant,
		MerchantPattern: pattern,
		Category:        s.engine.Resolve(pattern, rec.Description, rec.BankCategory),
		Amount:          rec.Amount,
		AccountType:     rec.AccountType,
		AccountName:     rec.AccountName,
		TransactionType: rec.TransactionType,
	}
}
