package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spendview-dev/spendview/internal/merchant"
	"github.com/spendview-dev/spendview/internal/model"
	"github.com/spendview-dev/spendview/internal/recurring"
)

// FileName is the config file each project directory carries.
const FileName = "spendview.yaml"

// Config represents the top-level spendview.yaml configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Detector   DetectorConfig   `yaml:"detector"`
}

// DataConfig locates the project's data files, relative to the project
// directory unless absolute.
type DataConfig struct {
	Database string `yaml:"database"`
	Rules    string `yaml:"rules"`
}

// NormalizerConfig tunes merchant pattern extraction.
type NormalizerConfig struct {
	Prefixes           []string `yaml:"prefixes,omitempty"`
	MinReferenceDigits int      `yaml:"min_reference_digits"`
}

// DetectorConfig tunes recurrence detection.
type DetectorConfig struct {
	MinOccurrences          int            `yaml:"min_occurrences"`
	SubscriptionMaxVariance float64        `yaml:"subscription_max_variance"`
	ChangeAlertPct          float64        `yaml:"change_alert_pct"`
	SubscriptionCategories  []string       `yaml:"subscription_categories,omitempty"`
	Buckets                 []BucketConfig `yaml:"buckets,omitempty"`
}

// BucketConfig is one cadence bucket: gaps within target +/- tolerance
// days classify as the named frequency.
type BucketConfig struct {
	Frequency     string `yaml:"frequency"`
	TargetDays    int    `yaml:"target_days"`
	ToleranceDays int    `yaml:"tolerance_days"`
}

// Load reads a spendview.yaml file from disk, then applies overrides
// from the environment and any .env file next to it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in rule tables and thresholds
// written out, so a new project's spendview.yaml is self-documenting.
func Default() *Config {
	mc := merchant.DefaultConfig()
	dc := recurring.DefaultConfig()

	buckets := make([]BucketConfig, len(dc.Buckets))
	for i, b := range dc.Buckets {
		buckets[i] = BucketConfig{
			Frequency:     string(b.Frequency),
			TargetDays:    b.TargetDays,
			ToleranceDays: b.ToleranceDays,
		}
	}

	return &Config{
		Data: DataConfig{
			Database: filepath.Join("data", "spendview.db"),
			Rules:    filepath.Join("rules", "categories.yaml"),
		},
		Normalizer: NormalizerConfig{
			Prefixes:           mc.Prefixes,
			MinReferenceDigits: mc.MinIDRun,
		},
		Detector: DetectorConfig{
			MinOccurrences:          dc.MinOccurrences,
			SubscriptionMaxVariance: dc.SubscriptionMaxVariance,
			ChangeAlertPct:          dc.ChangeAlertPct,
			SubscriptionCategories:  dc.SubscriptionCategories,
			Buckets:                 buckets,
		},
	}
}

// MerchantConfig converts the normalizer section to the form the
// merchant package takes. The state table is not configurable.
func (c *Config) MerchantConfig() merchant.Config {
	mc := merchant.DefaultConfig()
	if len(c.Normalizer.Prefixes) > 0 {
		mc.Prefixes = c.Normalizer.Prefixes
	}
	if c.Normalizer.MinReferenceDigits > 0 {
		mc.MinIDRun = c.Normalizer.MinReferenceDigits
	}
	return mc
}

// DetectorConfig converts the detector section to the form the
// recurring package takes. Zero-valued fields keep their defaults.
func (c *Config) DetectorConfig() recurring.Config {
	dc := recurring.DefaultConfig()
	d := c.Detector
	if d.MinOccurrences > 0 {
		dc.MinOccurrences = d.MinOccurrences
	}
	if d.SubscriptionMaxVariance > 0 {
		dc.SubscriptionMaxVariance = d.SubscriptionMaxVariance
	}
	if d.ChangeAlertPct > 0 {
		dc.ChangeAlertPct = d.ChangeAlertPct
	}
	if len(d.SubscriptionCategories) > 0 {
		dc.SubscriptionCategories = d.SubscriptionCategories
	}
	if len(d.Buckets) > 0 {
		buckets := make([]recurring.Bucket, len(d.Buckets))
		for i, b := range d.Buckets {
			buckets[i] = recurring.Bucket{
				Frequency:     model.Frequency(b.Frequency),
				TargetDays:    b.TargetDays,
				ToleranceDays: b.ToleranceDays,
			}
		}
		dc.Buckets = buckets
	}
	return dc
}

// DatabasePath resolves the database location against the project
// directory. SPENDVIEW_DB overrides the config value.
func (c *Config) DatabasePath(dir string) string {
	return resolve(dir, c.Data.Database)
}

// RulesPath resolves the category rules location against the project
// directory. SPENDVIEW_RULES overrides the config value.
func (c *Config) RulesPath(dir string) string {
	return resolve(dir, c.Data.Rules)
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("SPENDVIEW_DB"); ok && v != "" {
		c.Data.Database = v
	}
	if v, ok := os.LookupEnv("SPENDVIEW_RULES"); ok && v != "" {
		c.Data.Rules = v
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
