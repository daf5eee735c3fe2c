package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendview-dev/spendview/internal/model"
)

// AmexParser parses American Express CSV exports. Amex lists charges
// as negative amounts and credits as positive, the reverse of the
// stored convention, so amounts are negated on the way in.
type AmexParser struct{}

// Format returns the parser name.
func (p *AmexParser) Format() string { return "amex" }

// Parse reads an Amex CSV and returns BankRecords. Rows with an
// unparseable amount are skipped and counted.
func (p *AmexParser) Parse(r io.Reader) ([]model.BankRecord, int, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading amex CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, 0, nil
	}

	header := records[0]
	colDate := indexOf(header, "Date")
	colDesc := indexOf(header, "Description")
	colAmount := indexOf(header, "Amount")
	colMember := indexOf(header, "Card Member")
	if colDate < 0 || colDesc < 0 || colAmount < 0 {
		return nil, 0, fmt.Errorf("amex CSV: missing Date, Description, or Amount column")
	}

	var recs []model.BankRecord
	skipped := 0
	for _, rec := range records[1:] {
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[colAmount]))
		if err != nil {
			skipped++
			continue
		}

		txType := "debit"
		if amount.Sign() > 0 {
			txType = "credit"
		}

		desc := strings.TrimSpace(rec[colDesc])
		member := ""
		if colMember >= 0 {
			member = strings.TrimSpace(rec[colMember])
		}

		recs = append(recs, model.BankRecord{
			Date:            parseFlexibleDate(rec[colDate]),
			Description:     desc,
			Merchant:        extractMerchant(desc),
			Amount:          amount.Neg(),
			AccountType:     model.AccountAmex,
			AccountName:     member,
			TransactionType: txType,
		})
	}
	return recs, skipped, nil
}
