package report

import (
	"testing"
	"time"

	"github.com/kantong/kantong/pkg/category"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvReportRendererImpl_Render(t *testing.T) {
	t.Run("should render rows with header and totals", func(t *testing.T) {
		// given
		renderer := NewCsvReportRenderer()
		report := MonthlyReport{
			Month: "2025-04",
			Rows: []Row{
				{
					Date:     time.Date(2025, time.April, 3, 10, 0, 0, 0, time.UTC),
					Wallet:   "Main bank",
					Category: "Salary",
					Kind:     category.KindIncome,
					Amount:   decimal.NewFromInt(5000000),
					Note:     "April salary",
				},
				{
					Date:     time.Date(2025, time.April, 5, 19, 30, 0, 0, time.UTC),
					Wallet:   "Cash",
					Category: "Groceries",
					Kind:     category.KindExpense,
					Amount:   decimal.NewFromInt(125000),
				},
			},
			TotalIncome:  decimal.NewFromInt(5000000),
			TotalExpense: decimal.NewFromInt(125000),
			Net:          decimal.NewFromInt(4875000),
		}

		// when
		csv, err := renderer.Render(report)

		// then
		require.NoError(t, err)
		expected := "Date,Wallet,Category,Kind,Amount,Note\n" +
			"03/04/2025,Main bank,Salary,INCOME,5000000,April salary\n" +
			"05/04/2025,Cash,Groceries,EXPENSE,125000,\n" +
			"Total income,,,,5000000,\n" +
			"Total expense,,,,125000,\n" +
			"Net,,,,4875000,\n"
		assert.Equal(t, expected, csv)
	})

	t.Run("should render an empty month as header and zero totals", func(t *testing.T) {
		// given
		renderer := NewCsvReportRenderer()
		report := MonthlyReport{
			Month:        "2025-04",
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
			Net:          decimal.Zero,
		}

		// when
		csv, err := renderer.Render(report)

		// then
		require.NoError(t, err)
		expected := "Date,Wallet,Category,Kind,Amount,Note\n" +
			"Total income,,,,0,\n" +
			"Total expense,,,,0,\n" +
			"Net,,,,0,\n"
		assert.Equal(t, expected, csv)
	})
}
