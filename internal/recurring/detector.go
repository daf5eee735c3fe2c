package recurring

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendview-dev/spendview/internal/merchant"
	"github.com/spendview-dev/spendview/internal/model"
)

// Bucket maps day gaps onto a payment frequency. A gap matches when it
// falls within TargetDays plus or minus ToleranceDays.
type Bucket struct {
	Frequency     model.Frequency
	TargetDays    int
	ToleranceDays int
}

// Config holds the detection thresholds.
type Config struct {
	MinOccurrences          int      // groups smaller than this are noise
	Buckets                 []Bucket // checked in order, first full match wins
	SubscriptionMaxVariance float64  // variance/average ratio below which amounts count as fixed
	SubscriptionCategories  []string // categories eligible for the subscription flag
	ChangeAlertPct          float64  // |change_pct| above this flags the last charge
}

// DefaultConfig returns the built-in detection thresholds.
func DefaultConfig() Config {
	return Config{
		MinOccurrences: 3,
		Buckets: []Bucket{
			{Frequency: model.FrequencyWeekly, TargetDays: 7, ToleranceDays: 2},
			{Frequency: model.FrequencyMonthly, TargetDays: 30, ToleranceDays: 5},
			{Frequency: model.FrequencyQuarterly, TargetDays: 90, ToleranceDays: 5},
			{Frequency: model.FrequencyAnnual, TargetDays: 365, ToleranceDays: 15},
		},
		SubscriptionMaxVariance: 0.10,
		SubscriptionCategories:  []string{"Subscriptions", "Software/Tech", "Entertainment"},
		ChangeAlertPct:          0.20,
	}
}

// Result is the outcome of one detection run.
type Result struct {
	Records []model.RecurrenceRecord
	Skipped int // expense rows dropped for having no date
}

// Detector finds merchants that charge on a regular cadence.
type Detector struct {
	norm *merchant.Normalizer
	cfg  Config
}

// New creates a Detector. A MinOccurrences below 2 falls back to the
// default: a cadence needs at least one gap between charges.
func New(norm *merchant.Normalizer, cfg Config) *Detector {
	if cfg.MinOccurrences < 2 {
		cfg.MinOccurrences = DefaultConfig().MinOccurrences
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = DefaultConfig().Buckets
	}
	return &Detector{norm: norm, cfg: cfg}
}

// Detect groups expense transactions by merchant pattern and summarizes
// every group whose charge gaps all land in one frequency bucket.
// Credits are ignored. Records come back sorted by merchant pattern.
func (d *Detector) Detect(txns []model.Transaction) Result {
	var res Result
	groups := make(map[string][]model.Transaction)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		if t.Date.IsZero() {
			res.Skipped++
			continue
		}
		pattern := d.norm.Normalize(t.MerchantSource())
		if pattern == "" {
			continue
		}
		groups[pattern] = append(groups[pattern], t)
	}

	for pattern, group := range groups {
		if len(group) < d.cfg.MinOccurrences {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
		freq, ok := d.classify(group)
		if !ok {
			continue
		}
		res.Records = append(res.Records, d.summarize(pattern, freq, group))
	}

	sort.Slice(res.Records, func(i, j int) bool {
		return res.Records[i].MerchantPattern < res.Records[j].MerchantPattern
	})
	return res
}

// classify returns the first bucket whose window contains every gap
// between consecutive charges. A single gap outside the window
// disqualifies the bucket.
func (d *Detector) classify(group []model.Transaction) (model.Frequency, bool) {
	gaps := make([]int, 0, len(group)-1)
	for i := 1; i < len(group); i++ {
		gaps = append(gaps, daysBetween(group[i-1].Date, group[i].Date))
	}
	for _, b := range d.cfg.Buckets {
		if allWithin(gaps, b.TargetDays, b.ToleranceDays) {
			return b.Frequency, true
		}
	}
	return "", false
}

func (d *Detector) summarize(pattern string, freq model.Frequency, group []model.Transaction) model.RecurrenceRecord {
	last := group[len(group)-1]

	sum := decimal.Zero
	min, max := group[0].Amount, group[0].Amount
	for _, t := range group {
		sum = sum.Add(t.Amount)
		if t.Amount.LessThan(min) {
			min = t.Amount
		}
		if t.Amount.GreaterThan(max) {
			max = t.Amount
		}
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(group))))

	rec := model.RecurrenceRecord{
		MerchantPattern: pattern,
		Category:        group[0].Category,
		Frequency:       freq,
		AverageAmount:   avg,
		LastAmount:      last.Amount,
		LastDate:        last.Date,
		OccurrenceCount: len(group),
		AmountVariance:  max.Sub(min),
		IsActive:        true,
	}
	rec.IsSubscription = d.isSubscription(rec)
	if avg.Sign() > 0 {
		rec.ChangePct = last.Amount.Sub(avg).Div(avg)
		rec.ChangeAlert = rec.ChangePct.Abs().GreaterThan(decimal.NewFromFloat(d.cfg.ChangeAlertPct))
	}
	return rec
}

// isSubscription reports whether a record looks like a fixed-price
// subscription: monthly or annual cadence, amount variance under the
// configured share of the average, and a subscription-like category.
func (d *Detector) isSubscription(rec model.RecurrenceRecord) bool {
	if rec.Frequency != model.FrequencyMonthly && rec.Frequency != model.FrequencyAnnual {
		return false
	}
	if rec.AverageAmount.Sign() <= 0 {
		return false
	}
	ratio := rec.AmountVariance.Div(rec.AverageAmount)
	if !ratio.LessThan(decimal.NewFromFloat(d.cfg.SubscriptionMaxVariance)) {
		return false
	}
	for _, c := range d.cfg.SubscriptionCategories {
		if rec.Category == c {
			return true
		}
	}
	return false
}

func allWithin(gaps []int, target, tolerance int) bool {
	for _, g := range gaps {
		if g < target-tolerance || g > target+tolerance {
			return false
		}
	}
	return true
}

// daysBetween counts calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
