package recurring

import (
	"errors"
	"time"

	"github.com/kantong/kantong/pkg/category"
	"github.com/shopspring/decimal"
)

var (
	ErrRuleNotFound   = errors.New("recurring rule not found")
	ErrInvalidCadence = errors.New("invalid cadence")
	ErrInvalidAmount  = errors.New("amount must be a positive decimal")
)

type Cadence string

const (
	CadenceDaily   Cadence = "DAILY"
	CadenceWeekly  Cadence = "WEEKLY"
	CadenceMonthly Cadence = "MONTHLY"
)

func (c Cadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly || c == CadenceMonthly
}

// Next advances t by one cadence step. A monthly step keeps the day of month
// when the target month has it and otherwise clamps to the target month's
// last day, so a rule on the 31st fires on Feb 28 / Apr 30 instead of
// spilling into the following month. NextRun is the rule's only schedule
// state, so a clamped day carries into later steps: Jan 31 becomes Feb 28
// and then Mar 28, it does not return to the 31st.
func (c Cadence) Next(t time.Time) time.Time {
	switch c {
	case CadenceDaily:
		return t.AddDate(0, 0, 1)
	case CadenceWeekly:
		return t.AddDate(0, 0, 7)
	case CadenceMonthly:
		year, month, day := t.Date()
		firstOfNext := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		lastDay := firstOfNext.AddDate(0, 1, -1).Day()
		if day > lastDay {
			day = lastDay
		}
		return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return t
}

// Rule materializes one transaction per cadence period. NextRun is its whole
// schedule state: processing either creates a transaction dated NextRun and
// advances it one step, or skips (insufficient funds) and still advances.
type Rule struct {
	ID         int
	WalletId   int
	CategoryId int
	Kind       category.Kind
	Amount     decimal.Decimal
	Cadence    Cadence
	NextRun    time.Time
	Note       string
}

// Result counts the outcome of one processing pass.
type Result struct {
	Created int
	Skipped int
}
