package report

import (
	"time"

	"github.com/kantong/kantong/pkg/category"
	"github.com/shopspring/decimal"
)

// MonthlyReport is one month of the ledger resolved to display names,
// with income/expense totals summed over the rows.
type MonthlyReport struct {
	Month        string
	Rows         []Row
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

type Row struct {
	Date     time.Time
	Wallet   string
	Category string
	Kind     category.Kind
	Amount   decimal.Decimal
	Note     string
}
