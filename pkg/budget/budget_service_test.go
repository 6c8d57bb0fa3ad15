package budget

import (
	"context"
	"testing"
	"time"

	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var budgetRepoStub = NewStubBudgetRepo()
var categoryRepoStub = category.NewStubCategoryRepo()
var ledgerStub = &stubLedger{}

var service Service

// stubLedger returns a fixed spend per category id.
type stubLedger struct {
	spent map[int]decimal.Decimal
}

func (s *stubLedger) SumExpensesByCategory(ctx context.Context, userId int, categoryId int, from, to time.Time) (decimal.Decimal, error) {
	if amount, ok := s.spent[categoryId]; ok {
		return amount, nil
	}
	return decimal.Zero, nil
}

func setup(t *testing.T) func() {
	ledgerStub.spent = map[int]decimal.Decimal{}
	service = NewBudgetService(budgetRepoStub, categoryRepoStub, ledgerStub)
	return func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
	}
}

func expenseCategory(t *testing.T, name string) int {
	id, err := categoryRepoStub.Store(ctx, 1, category.Category{Name: name, Kind: category.KindExpense})
	require.NoError(t, err)
	return id
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a budget for an expense category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")

		// when
		created, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(600000)})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
	})

	t.Run("should reject a budget for an income category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId, err := categoryRepoStub.Store(ctx, 1, category.Category{Name: "Salary", Kind: category.KindIncome})
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100)})

		// then
		assert.ErrorIs(t, err, ErrNotExpense)
	})

	t.Run("should reject a non-positive cap", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")

		// when
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.Zero})

		// then
		assert.ErrorIs(t, err, ErrInvalidCap)
	})

	t.Run("should reject a malformed month label", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")

		// when
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "March 2025", Cap: decimal.NewFromInt(100)})

		// then
		assert.Error(t, err)
	})

	t.Run("should reject a second budget for the same category and month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100)})
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(200)})

		// then
		assert.ErrorIs(t, err, ErrDuplicateBudget)
	})
}

func TestServiceImpl_WithProgress(t *testing.T) {
	t.Run("should derive spent, remaining and percent from the ledger", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		created, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(600000)})
		require.NoError(t, err)
		ledgerStub.spent[categoryId] = decimal.NewFromInt(150000)

		// when
		progress, err := service.WithProgress(ctx, "2025-03")

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.Equal(t, created.ID, progress[0].ID)
		assert.True(t, progress[0].Spent.Equal(decimal.NewFromInt(150000)))
		assert.True(t, progress[0].Remaining.Equal(decimal.NewFromInt(450000)))
		assert.Equal(t, 25, progress[0].Percent)
	})

	t.Run("should clamp percent to 100 and remaining to zero on overspend", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100000)})
		require.NoError(t, err)
		ledgerStub.spent[categoryId] = decimal.NewFromInt(250000)

		// when
		progress, err := service.WithProgress(ctx, "2025-03")

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.True(t, progress[0].Remaining.IsZero())
		assert.Equal(t, 100, progress[0].Percent)
	})

	t.Run("should report zero percent when nothing was spent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100000)})
		require.NoError(t, err)

		// when
		progress, err := service.WithProgress(ctx, "2025-03")

		// then
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.True(t, progress[0].Spent.IsZero())
		assert.Equal(t, 0, progress[0].Percent)
	})

	t.Run("should not include budgets from other months", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-02", Cap: decimal.NewFromInt(100000)})
		require.NoError(t, err)

		// when
		progress, err := service.WithProgress(ctx, "2025-03")

		// then
		require.NoError(t, err)
		assert.Empty(t, progress)
	})

	t.Run("should reject a malformed month label", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.WithProgress(ctx, "bogus")

		// then
		assert.Error(t, err)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update only the cap", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		created, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100000)})
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, Budget{ID: created.ID, Cap: decimal.NewFromInt(180000)})

		// then
		require.NoError(t, err)
		assert.True(t, updated.Cap.Equal(decimal.NewFromInt(180000)))
		assert.Equal(t, categoryId, updated.CategoryId)
		assert.Equal(t, "2025-03", updated.Month)
	})

	t.Run("should return not found for an unknown budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, Budget{ID: 999, Cap: decimal.NewFromInt(100)})

		// then
		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		categoryId := expenseCategory(t, "Groceries")
		created, err := service.Create(ctx, Budget{CategoryId: categoryId, Month: "2025-03", Cap: decimal.NewFromInt(100000)})
		require.NoError(t, err)

		// when
		deleted, err := service.Delete(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("should return not found for an unknown budget", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Delete(ctx, 999)

		// then
		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})
}
