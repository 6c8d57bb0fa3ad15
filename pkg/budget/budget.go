package budget

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrDuplicateBudget = errors.New("budget already exists for this category and month")
	ErrNotExpense      = errors.New("budgets can only target expense categories")
	ErrInvalidCap      = errors.New("budget cap must be a positive decimal")
)

// Budget caps a category's spending for one month. Progress against the cap
// is always derived from the ledger, never stored.
type Budget struct {
	ID         int
	CategoryId int
	// Month is the "YYYY-MM" label of the budgeted month.
	Month string
	Cap   decimal.Decimal
}

// Progress is a budget joined with the month's actual spend.
type Progress struct {
	Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Percent is round(spent/cap*100) clamped to [0, 100]; a zero cap
	// always reads 0.
	Percent int
}

func progressOf(b Budget, spent decimal.Decimal) Progress {
	p := Progress{Budget: b, Spent: spent, Remaining: decimal.Zero}
	if remaining := b.Cap.Sub(spent); remaining.IsPositive() {
		p.Remaining = remaining
	}
	if b.Cap.IsPositive() {
		percent := int(spent.Div(b.Cap).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		if percent > 100 {
			percent = 100
		}
		p.Percent = percent
	}
	return p
}
