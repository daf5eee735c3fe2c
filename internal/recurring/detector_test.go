package recurring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendview-dev/spendview/internal/merchant"
	"github.com/spendview-dev/spendview/internal/model"
)

func newTestDetector(cfg Config) *Detector {
	return New(merchant.New(merchant.DefaultConfig()), cfg)
}

func expense(t *testing.T, day, merchantName, amount, category string) model.Transaction {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return model.Transaction{
		Date:        d,
		Description: merchantName,
		Merchant:    merchantName,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
	}
}

func netflixTxns(t *testing.T) []model.Transaction {
	t.Helper()
	return []model.Transaction{
		expense(t, "2024-01-01", "NETFLIX.COM", "15.99", "Subscriptions"),
		expense(t, "2024-02-01", "NETFLIX.COM", "15.99", "Subscriptions"),
		expense(t, "2024-03-03", "NETFLIX.COM", "15.99", "Subscriptions"),
		expense(t, "2024-04-01", "NETFLIX.COM", "19.99", "Subscriptions"),
	}
}

func TestDetect_MonthlyCadence(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	res := d.Detect(netflixTxns(t))
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "NETFLIX.COM", rec.MerchantPattern)
	assert.Equal(t, model.FrequencyMonthly, rec.Frequency)
	assert.Equal(t, 4, rec.OccurrenceCount)
	assert.True(t, rec.AverageAmount.Equal(decimal.RequireFromString("16.99")),
		"average = %s", rec.AverageAmount)
	assert.True(t, rec.LastAmount.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, rec.AmountVariance.Equal(decimal.RequireFromString("4.00")),
		"variance = %s", rec.AmountVariance)
	assert.Equal(t, "2024-04-01", rec.LastDate.Format("2006-01-02"))
	assert.True(t, rec.IsActive)

	// 4.00 variance on a 16.99 average is a 23.5% swing, well over the
	// 10% ceiling for a fixed-price subscription.
	assert.False(t, rec.IsSubscription)

	// Last charge is 17.7% above the average, under the 20% alert bar.
	assert.InDelta(t, 0.1766, rec.ChangePct.InexactFloat64(), 0.0005)
	assert.False(t, rec.ChangeAlert)
}

func TestDetect_SubscriptionThresholdConfigurable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubscriptionMaxVariance = 0.30

	res := newTestDetector(cfg).Detect(netflixTxns(t))
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].IsSubscription)
}

func TestDetect_Subscription(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-10", "SPOTIFY", "11.99", "Subscriptions"),
		expense(t, "2024-02-10", "SPOTIFY", "11.99", "Subscriptions"),
		expense(t, "2024-03-10", "SPOTIFY", "11.99", "Subscriptions"),
	})
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.True(t, rec.IsSubscription)
	assert.True(t, rec.AmountVariance.IsZero())
	assert.True(t, rec.ChangePct.IsZero())
}

func TestDetect_SubscriptionNeedsEligibleCategory(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-10", "STATE FARM", "89.00", "Insurance"),
		expense(t, "2024-02-10", "STATE FARM", "89.00", "Insurance"),
		expense(t, "2024-03-10", "STATE FARM", "89.00", "Insurance"),
	})
	require.Len(t, res.Records, 1)
	assert.False(t, res.Records[0].IsSubscription)
}

func TestDetect_RejectsIrregularGaps(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	// Gaps of 30, 95, and 30 days never fit a single bucket.
	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-01", "ACME STORAGE", "50.00", "Other"),
		expense(t, "2024-01-31", "ACME STORAGE", "50.00", "Other"),
		expense(t, "2024-05-05", "ACME STORAGE", "50.00", "Other"),
		expense(t, "2024-06-04", "ACME STORAGE", "50.00", "Other"),
	})
	assert.Empty(t, res.Records)
}

func TestDetect_TooFewOccurrences(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-01", "RARE SHOP", "10.00", "Shopping"),
		expense(t, "2024-02-01", "RARE SHOP", "10.00", "Shopping"),
	})
	assert.Empty(t, res.Records)
}

func TestDetect_Cadences(t *testing.T) {
	cases := []struct {
		name string
		days []string
		want model.Frequency
	}{
		{"weekly", []string{"2024-01-05", "2024-01-12", "2024-01-19", "2024-01-26"}, model.FrequencyWeekly},
		{"quarterly", []string{"2024-01-10", "2024-04-10", "2024-07-12"}, model.FrequencyQuarterly},
		{"annual", []string{"2022-06-15", "2023-06-15", "2024-06-20"}, model.FrequencyAnnual},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txns := make([]model.Transaction, 0, len(tc.days))
			for _, day := range tc.days {
				txns = append(txns, expense(t, day, "CADENCE TEST", "25.00", "Other"))
			}
			res := newTestDetector(DefaultConfig()).Detect(txns)
			require.Len(t, res.Records, 1)
			assert.Equal(t, tc.want, res.Records[0].Frequency)
		})
	}
}

func TestDetect_CreditsIgnored(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	// The refund leaves only two expenses, below the occurrence floor.
	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-01", "GADGET HUT", "99.00", "Shopping"),
		expense(t, "2024-02-01", "GADGET HUT", "-99.00", "Shopping"),
		expense(t, "2024-03-01", "GADGET HUT", "99.00", "Shopping"),
	})
	assert.Empty(t, res.Records)
}

func TestDetect_SkipsUndatedRows(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	undated := expense(t, "2024-01-01", "CITY GYM", "45.00", "Sports/Exercise")
	undated.Date = time.Time{}

	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-03", "CITY GYM", "45.00", "Sports/Exercise"),
		expense(t, "2024-02-03", "CITY GYM", "45.00", "Sports/Exercise"),
		expense(t, "2024-03-03", "CITY GYM", "45.00", "Sports/Exercise"),
		undated,
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, 3, res.Records[0].OccurrenceCount)
	assert.Equal(t, 1, res.Skipped)
}

func TestDetect_GroupsByNormalizedPattern(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	// Three spellings of the same merchant collapse into one group.
	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-02", "FSP*ACME GYM", "45.00", "Sports/Exercise"),
		expense(t, "2024-02-02", "ACME GYM 29401", "45.00", "Sports/Exercise"),
		expense(t, "2024-03-02", "acme gym", "45.00", "Sports/Exercise"),
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "ACME GYM", res.Records[0].MerchantPattern)
	assert.Equal(t, 3, res.Records[0].OccurrenceCount)
}

func TestDetect_ChangeAlert(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	// Average is 12.50, so the final 20.00 charge is 60% above it.
	res := d.Detect([]model.Transaction{
		expense(t, "2024-01-01", "STREAMCO", "10.00", "Entertainment"),
		expense(t, "2024-02-01", "STREAMCO", "10.00", "Entertainment"),
		expense(t, "2024-03-01", "STREAMCO", "10.00", "Entertainment"),
		expense(t, "2024-04-01", "STREAMCO", "20.00", "Entertainment"),
	})
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.True(t, rec.ChangeAlert)
	assert.InDelta(t, 0.60, rec.ChangePct.InexactFloat64(), 0.0001)
}

func TestDetect_RecordsSortedByPattern(t *testing.T) {
	d := newTestDetector(DefaultConfig())

	var txns []model.Transaction
	for _, day := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		txns = append(txns,
			expense(t, day, "ZETA WATER", "30.00", "Utilities"),
			expense(t, day, "ALPHA POWER", "120.00", "Utilities"),
		)
	}
	res := d.Detect(txns)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "ALPHA POWER", res.Records[0].MerchantPattern)
	assert.Equal(t, "ZETA WATER", res.Records[1].MerchantPattern)
}
