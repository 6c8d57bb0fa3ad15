package allowance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthDays(year int, month time.Month, spentByDay map[int]int64) []DaySpend {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var days []DaySpend
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		spent := decimal.Zero
		if amount, ok := spentByDay[d.Day()]; ok {
			spent = decimal.NewFromInt(amount)
		}
		days = append(days, DaySpend{Date: d, Spent: spent})
	}
	return days
}

func TestCompute(t *testing.T) {
	t.Run("should spread the spendable budget evenly before any spend", func(t *testing.T) {
		// given a 600000 budget with 400000 reserved over 30 days
		input := Input{
			Days:            monthDays(2025, time.April, nil),
			TotalBudget:     decimal.NewFromInt(600000),
			GoalReservation: decimal.NewFromInt(400000),
			Today:           time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		require.Len(t, plan.Days, 30)
		assert.True(t, plan.Spendable.Equal(decimal.NewFromInt(200000)))
		assert.True(t, plan.Days[0].Cap.Equal(decimal.NewFromInt(6667)), "day 1 cap was %s", plan.Days[0].Cap)
		assert.True(t, plan.NextCap.Equal(decimal.NewFromInt(6667)))
	})

	t.Run("should shrink later caps after an overspent day", func(t *testing.T) {
		// given day 1 spent 40000 against a 6667 cap
		input := Input{
			Days:            monthDays(2025, time.April, map[int]int64{1: 40000}),
			TotalBudget:     decimal.NewFromInt(600000),
			GoalReservation: decimal.NewFromInt(400000),
			Today:           time.Date(2025, time.April, 2, 8, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then day 2 replans 160000 over the 29 days left
		assert.Equal(t, StatusOver, plan.Days[0].Status)
		assert.True(t, plan.Days[1].Cap.Equal(decimal.NewFromInt(5517)), "day 2 cap was %s", plan.Days[1].Cap)
		assert.True(t, plan.Days[1].Cap.LessThan(plan.Days[0].Cap))
		assert.True(t, plan.NextCap.Equal(decimal.NewFromInt(5517)))
	})

	t.Run("should classify days against today", func(t *testing.T) {
		// given
		input := Input{
			Days:        monthDays(2025, time.April, map[int]int64{1: 1000, 2: 90000}),
			TotalBudget: decimal.NewFromInt(300000),
			Today:       time.Date(2025, time.April, 2, 23, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.Equal(t, StatusOk, plan.Days[0].Status)
		assert.Equal(t, StatusOver, plan.Days[1].Status)
		for _, day := range plan.Days[2:] {
			assert.Equal(t, StatusUpcoming, day.Status)
		}
	})

	t.Run("should fall back to the last day's cap when today is past month end", func(t *testing.T) {
		// given
		input := Input{
			Days:        monthDays(2025, time.April, nil),
			TotalBudget: decimal.NewFromInt(300000),
			Today:       time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.True(t, plan.NextCap.Equal(plan.Days[len(plan.Days)-1].Cap))
	})

	t.Run("should use an explicit daily target as the baseline", func(t *testing.T) {
		// given zero spendable but a flat 5000 target
		target := decimal.NewFromInt(5000)
		input := Input{
			Days:        monthDays(2025, time.April, nil),
			TotalBudget: decimal.Zero,
			DailyTarget: &target,
			Today:       time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.True(t, plan.Days[0].Cap.Equal(target))
		assert.True(t, plan.NextCap.Equal(target))
	})

	t.Run("should let an explicit daily target override a positive budget", func(t *testing.T) {
		// given a budget that would derive a 20000 cap and a flat 5000 target
		target := decimal.NewFromInt(5000)
		input := Input{
			Days:        monthDays(2025, time.April, nil),
			TotalBudget: decimal.NewFromInt(600000),
			DailyTarget: &target,
			Today:       time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.True(t, plan.Days[0].Cap.Equal(target))
		assert.True(t, plan.Spendable.Equal(decimal.NewFromInt(600000)))
	})

	t.Run("should yield zero caps for a zero budget without a target", func(t *testing.T) {
		// given
		input := Input{
			Days:        monthDays(2025, time.April, map[int]int64{1: 100}),
			TotalBudget: decimal.Zero,
			Today:       time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then any spend lands over a zero cap
		assert.True(t, plan.Days[0].Cap.IsZero())
		assert.Equal(t, StatusOver, plan.Days[0].Status)
	})

	t.Run("should clamp a negative actual spend to zero", func(t *testing.T) {
		// given
		input := Input{
			Days:        monthDays(2025, time.April, map[int]int64{1: -5000}),
			TotalBudget: decimal.NewFromInt(300000),
			Today:       time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then remaining is untouched by the bogus refund:
		// day 2 replans the full 300000 over 29 days
		assert.True(t, plan.Days[0].Spent.IsZero())
		assert.True(t, plan.Days[1].Cap.Equal(decimal.NewFromInt(10345)), "day 2 cap was %s", plan.Days[1].Cap)
	})

	t.Run("should clamp spendable to zero when the reservation exceeds the budget", func(t *testing.T) {
		// given
		input := Input{
			Days:            monthDays(2025, time.April, nil),
			TotalBudget:     decimal.NewFromInt(100000),
			GoalReservation: decimal.NewFromInt(400000),
			Today:           time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.True(t, plan.Spendable.IsZero())
		assert.True(t, plan.Days[0].Cap.IsZero())
	})

	t.Run("should return an all-zero plan for an empty month", func(t *testing.T) {
		// when
		plan := Compute(Input{Days: nil, TotalBudget: decimal.NewFromInt(100000)})

		// then
		assert.Empty(t, plan.Days)
		assert.True(t, plan.NextCap.IsZero())
		assert.True(t, plan.DailySaving.IsZero())
	})

	t.Run("should compute the daily saving as a rounded-up share of the reservation", func(t *testing.T) {
		// given 400000 reserved over 30 days with 3 deposits done
		input := Input{
			Days:            monthDays(2025, time.April, nil),
			TotalBudget:     decimal.NewFromInt(600000),
			GoalReservation: decimal.NewFromInt(400000),
			DepositCount:    3,
			Today:           time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then ceil(400000/30) = 13334
		assert.True(t, plan.DailySaving.Equal(decimal.NewFromInt(13334)), "daily saving was %s", plan.DailySaving)
		assert.True(t, plan.SavedAmount.Equal(decimal.NewFromInt(40002)))
	})

	t.Run("should cap the saved amount at the reservation", func(t *testing.T) {
		// given every deposit marked done
		input := Input{
			Days:            monthDays(2025, time.April, nil),
			TotalBudget:     decimal.NewFromInt(600000),
			GoalReservation: decimal.NewFromInt(400000),
			DepositCount:    30,
			Today:           time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
		}

		// when
		plan := Compute(input)

		// then
		assert.True(t, plan.SavedAmount.Equal(decimal.NewFromInt(400000)))
	})
}
