package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/kantong/kantong/internal/test_utils"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	service    *ServiceImpl
	txRepo     *transaction.RepoImpl
	walletRepo *wallet.RepoImpl
	ctx        context.Context
	userId     int
	sourceId   int
	destId     int
}

func setupTransferTest(t *testing.T) *testFixture {
	db := test_utils.SetupTestDB(t)
	ctx, testUser := test_utils.SeedTestUser(t, db)

	walletRepo := wallet.NewWalletRepo(db)
	txRepo := transaction.NewTransactionRepo(db)
	service := NewTransferService(db, txRepo, walletRepo, category.NewCategoryRepo(db))

	f := &testFixture{service: service, txRepo: txRepo, walletRepo: walletRepo, ctx: ctx, userId: testUser.Id}

	var err error
	f.sourceId, err = walletRepo.Store(ctx, f.userId, wallet.Wallet{
		Name: "Bank", Kind: wallet.KindBank, Currency: "IDR",
		InitialBalance: decimal.NewFromInt(1000000), CurrentBalance: decimal.NewFromInt(1000000),
	})
	require.NoError(t, err)
	f.destId, err = walletRepo.Store(ctx, f.userId, wallet.Wallet{
		Name: "E-wallet", Kind: wallet.KindEWallet, Currency: "IDR",
		InitialBalance: decimal.Zero, CurrentBalance: decimal.Zero,
	})
	require.NoError(t, err)

	return f
}

func (f *testFixture) balanceOf(t *testing.T, walletId int) decimal.Decimal {
	t.Helper()
	w, err := f.walletRepo.GetById(f.ctx, f.userId, walletId)
	require.NoError(t, err)
	return w.CurrentBalance
}

func (f *testFixture) ledgerRows(t *testing.T) []transaction.Transaction {
	t.Helper()
	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
	rows, err := f.txRepo.List(f.ctx, f.userId, from, to)
	require.NoError(t, err)
	return rows
}

func (f *testFixture) assertBalanceInvariant(t *testing.T) {
	t.Helper()
	wallets, err := f.walletRepo.GetAll(f.ctx, f.userId)
	require.NoError(t, err)
	for _, w := range wallets {
		income, expense, err := f.txRepo.SumsByWallet(f.ctx, f.userId, w.ID)
		require.NoError(t, err)
		derived := w.InitialBalance.Add(income).Sub(expense)
		assert.True(t, w.CurrentBalance.Equal(derived),
			"wallet %q cached balance %s diverged from derived %s", w.Name, w.CurrentBalance, derived)
	}
}

func TestServiceImpl_Transfer(t *testing.T) {
	t.Run("should write three legs and both deltas when a fee is charged", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when transferring 100000 with a 5000 fee
		result, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId,
			ToWalletId:   f.destId,
			Amount:       decimal.NewFromInt(100000),
			Fee:          decimal.NewFromInt(5000),
			Date:         time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC),
			Note:         "top up",
		})

		// then the source is down 105000, the destination up 100000
		require.NoError(t, err)
		require.NotNil(t, result.FeeTx)
		assert.True(t, f.balanceOf(t, f.sourceId).Equal(decimal.NewFromInt(895000)))
		assert.True(t, f.balanceOf(t, f.destId).Equal(decimal.NewFromInt(100000)))

		rows := f.ledgerRows(t)
		require.Len(t, rows, 3)
		for _, row := range rows {
			assert.Equal(t, result.Uid, row.TransferUid)
		}
		f.assertBalanceInvariant(t)
	})

	t.Run("should write exactly two legs when no fee is charged", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when
		result, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId,
			ToWalletId:   f.destId,
			Amount:       decimal.NewFromInt(250000),
		})

		// then
		require.NoError(t, err)
		assert.Nil(t, result.FeeTx)
		assert.Len(t, f.ledgerRows(t), 2)
		assert.True(t, f.balanceOf(t, f.sourceId).Equal(decimal.NewFromInt(750000)))
		assert.True(t, f.balanceOf(t, f.destId).Equal(decimal.NewFromInt(250000)))
		f.assertBalanceInvariant(t)
	})

	t.Run("should pair an expense out leg with an income in leg", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when
		result, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId,
			ToWalletId:   f.destId,
			Amount:       decimal.NewFromInt(50000),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, category.KindExpense, result.OutTx.Kind)
		assert.Equal(t, f.sourceId, result.OutTx.WalletId)
		assert.Equal(t, category.KindIncome, result.InTx.Kind)
		assert.Equal(t, f.destId, result.InTx.WalletId)
	})

	t.Run("should reuse the system categories across transfers", func(t *testing.T) {
		// given a first transfer created the tagged categories
		f := setupTransferTest(t)
		first, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: f.destId, Amount: decimal.NewFromInt(10000),
		})
		require.NoError(t, err)

		// when
		second, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: f.destId, Amount: decimal.NewFromInt(20000),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, first.OutTx.CategoryId, second.OutTx.CategoryId)
		assert.Equal(t, first.InTx.CategoryId, second.InTx.CategoryId)
	})

	t.Run("should reject a transfer onto the same wallet", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when
		_, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: f.sourceId, Amount: decimal.NewFromInt(1000),
		})

		// then
		assert.ErrorIs(t, err, ErrSameWallet)
		assert.Empty(t, f.ledgerRows(t))
	})

	t.Run("should reject a non-positive amount", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when
		_, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: f.destId, Amount: decimal.Zero,
		})

		// then
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should reject a negative fee", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when
		_, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: f.destId,
			Amount: decimal.NewFromInt(1000), Fee: decimal.NewFromInt(-1),
		})

		// then
		assert.ErrorIs(t, err, ErrNegativeFee)
	})

	t.Run("should leave no partial effects when the destination is missing", func(t *testing.T) {
		// given
		f := setupTransferTest(t)

		// when the destination wallet does not exist
		_, err := f.service.Transfer(f.ctx, Request{
			FromWalletId: f.sourceId, ToWalletId: 999, Amount: decimal.NewFromInt(1000),
		})

		// then everything rolled back
		require.ErrorIs(t, err, wallet.ErrWalletNotFound)
		assert.Empty(t, f.ledgerRows(t))
		assert.True(t, f.balanceOf(t, f.sourceId).Equal(decimal.NewFromInt(1000000)))
		f.assertBalanceInvariant(t)
	})
}
