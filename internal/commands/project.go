package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/spendview-dev/spendview/internal/audit"
	"github.com/spendview-dev/spendview/internal/category"
	"github.com/spendview-dev/spendview/internal/config"
	"github.com/spendview-dev/spendview/internal/logger"
	"github.com/spendview-dev/spendview/internal/merchant"
	"github.com/spendview-dev/spendview/internal/store"
)

// project bundles everything a command needs: the loaded config, the
// open database, and a normalizer built from the config's rule tables.
type project struct {
	dir   string
	cfg   *config.Config
	store *store.Store
	norm  *merchant.Normalizer
	log   zerolog.Logger
}

func openProject(opts *rootOptions) (*project, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s (run 'spendview init' first)", config.FileName, dir)
		}
		return nil, err
	}

	st, err := store.Open(cfg.DatabasePath(dir))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &project{
		dir:   dir,
		cfg:   cfg,
		store: st,
		norm:  merchant.New(cfg.MerchantConfig()),
		log:   logger.New(opts.verbose),
	}, nil
}

func (p *project) Close() {
	if err := p.store.Close(); err != nil {
		p.log.Warn().Err(err).Msg("closing database")
	}
}

// engine builds a categorization engine from the project's rules file
// and the current learned mappings. A missing rules file falls back to
// the built-in rule table.
func (p *project) engine(ctx context.Context) (*category.Engine, error) {
	rules, err := category.LoadRules(p.cfg.RulesPath(p.dir))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		rules = category.DefaultRules()
	}

	learned, err := p.store.LearnedMappings(ctx)
	if err != nil {
		return nil, err
	}
	return category.NewEngine(rules, category.DefaultBankCategories(), learned), nil
}

// audit appends entries to the project audit log. Failures are logged,
// not fatal.
func (p *project) audit(entries ...audit.Entry) {
	if err := audit.Append(p.dir, entries); err != nil {
		p.log.Warn().Err(err).Msg("writing audit log")
	}
}
