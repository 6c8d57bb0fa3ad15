package allowance

import (
	"context"
	"fmt"
	"time"

	"github.com/kantong/kantong/internal/period"
	"github.com/kantong/kantong/internal/utils"
	"github.com/kantong/kantong/pkg/user"
	"github.com/shopspring/decimal"
)

// DailySpend exposes the ledger's per-day expense totals, keyed
// "YYYY-MM-DD". Implemented by the transaction repository.
type DailySpend interface {
	DailyExpenseTotals(ctx context.Context, userId int, from, to time.Time) (map[string]decimal.Decimal, error)
}

// MonthRequest carries the planner knobs that are not derivable from
// the ledger.
type MonthRequest struct {
	TotalBudget     decimal.Decimal
	DailyTarget     *decimal.Decimal
	GoalReservation decimal.Decimal
	DepositCount    int
}

type Service interface {
	PlanMonth(ctx context.Context, month string, req MonthRequest) (Plan, error)
}

type ServiceImpl struct {
	ledger DailySpend
	clock  utils.Clock
}

func NewAllowanceService(ledger DailySpend, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{ledger: ledger, clock: clock}
}

// PlanMonth assembles one DaySpend per calendar day of the month from
// the ledger and runs the planner over them.
func (s *ServiceImpl) PlanMonth(ctx context.Context, month string, req MonthRequest) (Plan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to get current user: %w", err)
	}
	window, err := period.Parse(month)
	if err != nil {
		return Plan{}, err
	}

	totals, err := s.ledger.DailyExpenseTotals(ctx, userId, window.Start, window.End)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to load daily expense totals: %w", err)
	}

	days := make([]DaySpend, 0, window.Days())
	for d := window.Start; d.Before(window.End); d = d.AddDate(0, 0, 1) {
		spent, ok := totals[d.Format("2006-01-02")]
		if !ok {
			spent = decimal.Zero
		}
		days = append(days, DaySpend{Date: d, Spent: spent})
	}

	return Compute(Input{
		Days:            days,
		TotalBudget:     req.TotalBudget,
		DailyTarget:     req.DailyTarget,
		GoalReservation: req.GoalReservation,
		DepositCount:    req.DepositCount,
		Today:           s.clock.Now(),
	}), nil
}
