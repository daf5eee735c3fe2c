package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendview-dev/spendview/internal/model"
)

// AppleCardParser parses Apple Card CSV exports. Charges are already
// positive and payments negative, matching the stored convention. The
// issuer category column is carried through for the categorizer.
type AppleCardParser struct{}

// Format returns the parser name.
func (p *AppleCardParser) Format() string { return "applecard" }

// Parse reads an Apple Card CSV and returns BankRecords. Rows with an
// unparseable amount are skipped and counted.
func (p *AppleCardParser) Parse(r io.Reader) ([]model.BankRecord, int, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading applecard CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, 0, nil
	}

	header := records[0]
	colDate := indexOf(header, "Transaction Date")
	colDesc := indexOf(header, "Description")
	colAmount := indexOf(header, "Amount (USD)")
	colMerchant := indexOf(header, "Merchant")
	colCategory := indexOf(header, "Category")
	colBuyer := indexOf(header, "Purchased By")
	if colDate < 0 || colDesc < 0 || colAmount < 0 {
		return nil, 0, fmt.Errorf("applecard CSV: missing Transaction Date, Description, or Amount (USD) column")
	}

	cell := func(rec []string, col int) string {
		if col < 0 {
			return ""
		}
		return strings.TrimSpace(rec[col])
	}

	var recs []model.BankRecord
	skipped := 0
	for _, rec := range records[1:] {
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[colAmount]))
		if err != nil {
			skipped++
			continue
		}

		txType := "purchase"
		if amount.Sign() < 0 {
			txType = "payment"
		}

		recs = append(recs, model.BankRecord{
			Date:            parseFlexibleDate(rec[colDate]),
			Description:     strings.TrimSpace(rec[colDesc]),
			Merchant:        cell(rec, colMerchant),
			Amount:          amount,
			BankCategory:    cell(rec, colCategory),
			AccountType:     model.AccountAppleCard,
			AccountName:     cell(rec, colBuyer),
			TransactionType: txType,
		})
	}
	return recs, skipped, nil
}
