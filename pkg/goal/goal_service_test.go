package goal

import (
	"context"
	"testing"

	"github.com/kantong/kantong/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1, Username: "test_user"})

var goalRepoStub = NewStubGoalRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewGoalService(goalRepoStub)
	return func() {
		t.Log("Teardown after test")
		goalRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Goal{Name: "Emergency fund", Target: decimal.NewFromInt(5000000)})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.True(t, created.Current.IsZero())
	})

	t.Run("should reject a current amount above the target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Goal{
			Name:    "Emergency fund",
			Target:  decimal.NewFromInt(100000),
			Current: decimal.NewFromInt(100001),
		})

		// then
		assert.ErrorIs(t, err, ErrCurrentOutOfBand)
	})

	t.Run("should reject a negative current amount", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Goal{
			Name:    "Emergency fund",
			Target:  decimal.NewFromInt(100000),
			Current: decimal.NewFromInt(-1),
		})

		// then
		assert.ErrorIs(t, err, ErrCurrentOutOfBand)
	})

	t.Run("should reject a non-positive target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Goal{Name: "Emergency fund", Target: decimal.Zero})

		// then
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("should accept a current amount equal to the target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Goal{
			Name:    "Done saving",
			Target:  decimal.NewFromInt(100000),
			Current: decimal.NewFromInt(100000),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 100, created.ProgressPercent())
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update a goal within bounds", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		created, err := service.Create(ctx, Goal{Name: "Trip", Target: decimal.NewFromInt(300000)})
		require.NoError(t, err)

		// when
		created.Current = decimal.NewFromInt(150000)
		updated, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		assert.Equal(t, 50, updated.ProgressPercent())
	})

	t.Run("should reject an update pushing current above target", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		created, err := service.Create(ctx, Goal{Name: "Trip", Target: decimal.NewFromInt(300000)})
		require.NoError(t, err)

		// when
		created.Current = decimal.NewFromInt(300001)
		_, err = service.Update(ctx, created)

		// then
		assert.ErrorIs(t, err, ErrCurrentOutOfBand)
	})

	t.Run("should return not found for an unknown goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, Goal{ID: 999, Name: "Ghost", Target: decimal.NewFromInt(100)})

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		// given
		created, err := service.Create(ctx, Goal{Name: "Trip", Target: decimal.NewFromInt(300000)})
		require.NoError(t, err)

		// when
		deleted, err := service.Delete(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("should return not found for an unknown goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Delete(ctx, 999)

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestGoal_ProgressPercent(t *testing.T) {
	t.Run("should round to the nearest whole percent", func(t *testing.T) {
		g := Goal{Target: decimal.NewFromInt(300000), Current: decimal.NewFromInt(100000)}
		assert.Equal(t, 33, g.ProgressPercent())
	})

	t.Run("should report zero for a zero target", func(t *testing.T) {
		g := Goal{Target: decimal.Zero, Current: decimal.Zero}
		assert.Equal(t, 0, g.ProgressPercent())
	})
}
