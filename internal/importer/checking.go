package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spendview-dev/spendview/internal/model"
)

// CheckingParser parses checking account CSV exports, which split
// money movement across Withdrawal and Deposit columns. Withdrawals
// become positive expenses, deposits negative income. Rows with
// neither are skipped and counted.
type CheckingParser struct{}

// Format returns the parser name.
func (p *CheckingParser) Format() string { return "checking" }

// Parse reads a checking CSV and returns BankRecords.
func (p *CheckingParser) Parse(r io.Reader) ([]model.BankRecord, int, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading checking CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, 0, nil
	}

	header := records[0]
	colDate := indexOf(header, "Date")
	colDesc := indexOf(header, "Description")
	colWithdrawal := indexOf(header, "Withdrawal")
	colDeposit := indexOf(header, "Deposit")
	if colDate < 0 || colDesc < 0 || colWithdrawal < 0 || colDeposit < 0 {
		return nil, 0, fmt.Errorf("checking CSV: missing Date, Description, Withdrawal, or Deposit column")
	}

	var recs []model.BankRecord
	skipped := 0
	for _, rec := range records[1:] {
		withdrawal := cleanAmount(rec[colWithdrawal])
		deposit := cleanAmount(rec[colDeposit])

		var (
			amount = withdrawal
			txType = "withdrawal"
		)
		switch {
		case withdrawal.Sign() > 0:
		case deposit.Sign() > 0:
			amount = deposit.Neg()
			txType = "deposit"
		default:
			skipped++
			continue
		}

		desc := strings.TrimSpace(rec[colDesc])
		recs = append(recs, model.BankRecord{
			Date:            parseFlexibleDate(rec[colDate]),
			Description:     desc,
			Merchant:        extractMerchant(desc),
			Amount:          amount,
			AccountType:     model.AccountChecking,
			AccountName:     "Checking Account",
			TransactionType: txType,
		})
	}
	return recs, skipped, nil
}
