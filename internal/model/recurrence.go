package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency classifies the cadence of a recurring payment.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

// ParseFrequency converts a stored string to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// RecurrenceRecord summarizes one merchant pattern's detected payment
// cadence. Records are recomputed wholesale on every detection run.
type RecurrenceRecord struct {
	MerchantPattern string
	Category        string
	Frequency       Frequency
	AverageAmount   decimal.Decimal
	LastAmount      decimal.Decimal
	LastDate        time.Time
	OccurrenceCount int
	AmountVariance  decimal.Decimal // max amount minus min amount
	IsActive        bool
	IsSubscription  bool

	// Derived per run, not persisted.
	ChangePct   decimal.Decimal // (last - average) / average
	ChangeAlert bool
}
