// External test package: the service is exercised with the real
// transaction repository as its ledger, which would otherwise cycle
// with this package.
package wallet_test

import (
	"context"
	"testing"

	"github.com/kantong/kantong/internal/test_utils"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUserId(t *testing.T, ctx context.Context) int {
	t.Helper()
	userId, err := user.CurrentId(ctx)
	require.NoError(t, err)
	return userId
}

func setupWalletTest(t *testing.T) (*wallet.ServiceImpl, *wallet.RepoImpl, context.Context) {
	db := test_utils.SetupTestDB(t)
	ctx, _ := test_utils.SeedTestUser(t, db)
	repo := wallet.NewWalletRepo(db)
	service := wallet.NewWalletService(db, repo, transaction.NewTransactionRepo(db))
	return service, repo, ctx
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should start the running total at the initial balance", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)

		// when
		created, err := service.Create(ctx, wallet.Wallet{
			Name:           "Main bank",
			Kind:           wallet.KindBank,
			InitialBalance: decimal.NewFromInt(500000),
		})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.True(t, created.CurrentBalance.Equal(decimal.NewFromInt(500000)))
	})

	t.Run("should default kind and currency", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)

		// when
		created, err := service.Create(ctx, wallet.Wallet{Name: "Pocket"})

		// then
		require.NoError(t, err)
		assert.Equal(t, wallet.KindCash, created.Kind)
		assert.Equal(t, "IDR", created.Currency)
	})

	t.Run("should reject an unknown kind", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)

		// when
		_, err := service.Create(ctx, wallet.Wallet{Name: "Vault", Kind: "safe"})

		// then
		assert.ErrorIs(t, err, wallet.ErrInvalidKind)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should shift the running total when the initial balance changes", func(t *testing.T) {
		// given a wallet with a recorded baseline
		service, repo, ctx := setupWalletTest(t)
		created, err := service.Create(ctx, wallet.Wallet{
			Name:           "Main bank",
			Kind:           wallet.KindBank,
			InitialBalance: decimal.NewFromInt(100000),
		})
		require.NoError(t, err)

		// when the baseline is raised by 50000
		created.InitialBalance = decimal.NewFromInt(150000)
		updated, err := service.Update(ctx, created)

		// then the cached total moves by the same delta
		require.NoError(t, err)
		assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(150000)))

		stored, err := repo.GetById(ctx, mustUserId(t, ctx), created.ID)
		require.NoError(t, err)
		assert.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(150000)))
	})

	t.Run("should return not found for a missing wallet", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)

		// when
		_, err := service.Update(ctx, wallet.Wallet{ID: 999, Name: "Ghost", Kind: wallet.KindCash})

		// then
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})
}

func TestServiceImpl_Balance(t *testing.T) {
	t.Run("should equal the initial balance for an empty ledger", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)
		created, err := service.Create(ctx, wallet.Wallet{
			Name:           "Main bank",
			Kind:           wallet.KindBank,
			InitialBalance: decimal.NewFromInt(250000),
		})
		require.NoError(t, err)

		// when
		balance, err := service.Balance(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(250000)))
	})

	t.Run("should return not found for a missing wallet", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)

		// when
		_, err := service.Balance(ctx, 999)

		// then
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete a wallet", func(t *testing.T) {
		// given
		service, _, ctx := setupWalletTest(t)
		created, err := service.Create(ctx, wallet.Wallet{Name: "Old cash", Kind: wallet.KindCash})
		require.NoError(t, err)

		// when
		deleted, err := service.Delete(ctx, created.ID)

		// then
		require.NoError(t, err)
		assert.True(t, deleted)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})
}
