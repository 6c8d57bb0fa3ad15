package goal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrInvalidTarget    = errors.New("goal target must be a positive decimal")
	ErrCurrentOutOfBand = errors.New("goal current amount must be between zero and the target")
)

// Goal is a saving target. Current never exceeds Target and never drops
// below zero; both bounds are enforced on every write.
type Goal struct {
	ID       int
	Name     string
	Target   decimal.Decimal
	Current  decimal.Decimal
	Deadline *time.Time
	Note     string
}

// ProgressPercent is round(current/target*100). Current is bounded by
// Target so the result always lands in [0, 100].
func (g Goal) ProgressPercent() int {
	if !g.Target.IsPositive() {
		return 0
	}
	return int(g.Current.Div(g.Target).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func (g Goal) validate() error {
	if !g.Target.IsPositive() {
		return ErrInvalidTarget
	}
	if g.Current.IsNegative() || g.Current.GreaterThan(g.Target) {
		return ErrCurrentOutOfBand
	}
	return nil
}
