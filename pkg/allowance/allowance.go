package allowance

import (
	"time"

	"github.com/shopspring/decimal"
)

type DayStatus string

const (
	StatusUpcoming DayStatus = "UPCOMING"
	StatusOk       DayStatus = "OK"
	StatusOver     DayStatus = "OVER"
)

// DaySpend is one calendar day's actual expense total. Future days
// carry zero.
type DaySpend struct {
	Date  time.Time
	Spent decimal.Decimal
}

type DayPlan struct {
	Date   time.Time
	Cap    decimal.Decimal
	Spent  decimal.Decimal
	Status DayStatus
}

type Input struct {
	// Days lists every day of the month in calendar order.
	Days        []DaySpend
	TotalBudget decimal.Decimal
	// DailyTarget, when set, replaces the computed baseline figure:
	// the walk starts from DailyTarget times the number of days.
	DailyTarget     *decimal.Decimal
	GoalReservation decimal.Decimal
	// DepositCount is how many daily goal deposits the user marked done.
	DepositCount int
	Today        time.Time
}

type Plan struct {
	Days        []DayPlan
	NextCap     decimal.Decimal
	Spendable   decimal.Decimal
	DailySaving decimal.Decimal
	SavedAmount decimal.Decimal
}

// Compute redistributes the month's spendable budget over its days.
// Each day's cap is recomputed from what is still unspent over the days
// that remain, so overspending one day lowers the cap of every later
// day. Pure: same input, same plan.
func Compute(input Input) Plan {
	numberOfDays := len(input.Days)
	if numberOfDays == 0 {
		return Plan{Days: []DayPlan{}, NextCap: decimal.Zero, Spendable: decimal.Zero,
			DailySaving: decimal.Zero, SavedAmount: decimal.Zero}
	}
	dayCount := decimal.NewFromInt(int64(numberOfDays))

	spendable := input.TotalBudget.Sub(input.GoalReservation)
	if spendable.IsNegative() {
		spendable = decimal.Zero
	}

	remaining := spendable
	if input.DailyTarget != nil {
		remaining = input.DailyTarget.Mul(dayCount)
	}

	today := dayKey(input.Today)
	days := make([]DayPlan, 0, numberOfDays)
	nextCap := decimal.Zero
	nextCapFound := false

	for i, day := range input.Days {
		daysLeft := decimal.NewFromInt(int64(numberOfDays - i))

		plannedCap := remaining.DivRound(daysLeft, 0)
		if plannedCap.IsNegative() {
			plannedCap = decimal.Zero
		}

		spent := day.Spent
		if spent.IsNegative() {
			spent = decimal.Zero
		}

		key := dayKey(day.Date)
		status := StatusOk
		switch {
		case key > today:
			status = StatusUpcoming
		case spent.GreaterThan(plannedCap):
			status = StatusOver
		}

		days = append(days, DayPlan{Date: day.Date, Cap: plannedCap, Spent: spent, Status: status})

		if !nextCapFound && key >= today {
			nextCap = plannedCap
			nextCapFound = true
		}

		remaining = remaining.Sub(spent)
	}
	if !nextCapFound {
		// today is past month-end
		nextCap = days[numberOfDays-1].Cap
	}

	dailySaving := decimal.Zero
	savedAmount := decimal.Zero
	if input.GoalReservation.IsPositive() {
		dailySaving = input.GoalReservation.Div(dayCount).Ceil()
		savedAmount = dailySaving.Mul(decimal.NewFromInt(int64(input.DepositCount)))
		if savedAmount.GreaterThan(input.GoalReservation) {
			savedAmount = input.GoalReservation
		}
	}

	return Plan{
		Days:        days,
		NextCap:     nextCap,
		Spendable:   spendable,
		DailySaving: dailySaving,
		SavedAmount: savedAmount,
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
