package category

import (
	"context"
	"testing"

	"github.com/kantong/kantong/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var categoryRepoStub = NewStubCategoryRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewCategoryService(categoryRepoStub)
	return func() {
		t.Log("Teardown after test")
		categoryRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Category{Name: "Groceries", Kind: KindExpense})

		// then
		assert.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "Groceries", created.Name)
		assert.Equal(t, KindExpense, created.Kind)
	})

	t.Run("should reject an invalid kind", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Category{Name: "Groceries", Kind: "TRANSFER"})

		// then
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	t.Run("should never accept a caller-provided system tag", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Category{Name: "Sneaky", Kind: KindExpense, Tag: TagTransferOut})

		// then
		require.NoError(t, err)
		assert.Empty(t, created.Tag)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Category{Name: "Groceries", Kind: KindExpense})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should rename a category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Category{Name: "Fod", Kind: KindExpense})
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, Category{ID: created.ID, Name: "Food", Kind: KindExpense})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Food", updated.Name)
	})

	t.Run("should refuse a kind change while transactions reference the category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Category{Name: "Salary", Kind: KindIncome})
		require.NoError(t, err)
		categoryRepoStub.MarkReferenced(created.ID)

		// when
		_, err = service.Update(ctx, Category{ID: created.ID, Name: "Salary", Kind: KindExpense})

		// then
		assert.ErrorIs(t, err, ErrCategoryInUse)
	})

	t.Run("should allow a kind change on an unreferenced category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Category{Name: "Misc", Kind: KindIncome})
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, Category{ID: created.ID, Name: "Misc", Kind: KindExpense})

		// then
		assert.NoError(t, err)
		assert.Equal(t, KindExpense, updated.Kind)
	})

	t.Run("should refuse a kind change on a default category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id, err := categoryRepoStub.Store(ctx, 1, Category{Name: "Transfer Out", Kind: KindExpense, IsDefault: true})
		require.NoError(t, err)

		// when
		_, err = service.Update(ctx, Category{ID: id, Name: "Transfer Out", Kind: KindIncome})

		// then
		assert.ErrorIs(t, err, ErrCategoryInUse)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a user category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Category{Name: "Temp", Kind: KindExpense})
		require.NoError(t, err)

		// when
		ok, err := service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should refuse to delete a default category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		id, err := categoryRepoStub.Store(ctx, 1, Category{Name: "Transfer In", Kind: KindIncome, IsDefault: true, Tag: TagTransferIn})
		require.NoError(t, err)

		// when
		_, err = service.Delete(ctx, id)

		// then
		assert.ErrorIs(t, err, ErrDefaultCategory)
	})

	t.Run("should report not found for a missing category", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Delete(ctx, 12345)

		// then
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}
