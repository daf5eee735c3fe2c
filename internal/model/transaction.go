package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankRecord represents a parsed bank CSV row before enrichment.
type BankRecord struct {
	Date            time.Time
	Description     string
	Merchant        string // empty when the format has no merchant column
	Amount          decimal.Decimal
	BankCategory    string // issuer-supplied category, if any
	AccountType     string
	AccountName     string
	TransactionType string
}

// Transaction is one normalized transaction as stored.
type Transaction struct {
	ID              int64
	Date            time.Time
	Description     string
	Merchant        string
	MerchantPattern string // normalized merchant key, computed at import
	Category        string
	Amount          decimal.Decimal // positive = expense, negative = income/credit
	AccountType     string
	AccountName     string
	TransactionType string
}

// Account types produced by the built-in importers.
const (
	AccountAmex      = "Amex"
	AccountAppleCard = "Apple Card"
	AccountChecking  = "Checking"
)

// MerchantSource returns the string the merchant pattern derives from:
// the merchant column when present, otherwise the full description.
func (t Transaction) MerchantSource() string {
	if t.Merchant != "" {
		return t.Merchant
	}
	return t.Description
}

// IsExpense reports whether the transaction spends money.
func (t Transaction) IsExpense() bool { return t.Amount.Sign() > 0 }

// IsCredit reports whether the transaction is income or a refund.
func (t Transaction) IsCredit() bool { return t.Amount.Sign() < 0 }
