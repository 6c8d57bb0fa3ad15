package transfer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kantong/kantong/internal/database"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Transfer(ctx context.Context, req Request) (Result, error)
}

// ServiceImpl moves money between two wallets of the same user. One database
// transaction covers the out leg, the in leg, the optional fee leg, both
// wallet balance deltas, and the lazy creation of the system categories, so
// no reader ever sees a debit without its credit.
type ServiceImpl struct {
	db           *sql.DB
	txRepo       *transaction.RepoImpl
	walletRepo   *wallet.RepoImpl
	categoryRepo *category.RepoImpl
}

func NewTransferService(db *sql.DB, txRepo *transaction.RepoImpl, walletRepo *wallet.RepoImpl, categoryRepo *category.RepoImpl) *ServiceImpl {
	return &ServiceImpl{db: db, txRepo: txRepo, walletRepo: walletRepo, categoryRepo: categoryRepo}
}

func (s *ServiceImpl) Transfer(ctx context.Context, req Request) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if req.FromWalletId == req.ToWalletId {
		return Result{}, ErrSameWallet
	}
	if !req.Amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}
	if req.Fee.IsNegative() {
		return Result{}, ErrNegativeFee
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	result := Result{Uid: uuid.New().String()}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := s.txRepo.WithTx(tx)
		walletRepo := s.walletRepo.WithTx(tx)
		categoryRepo := s.categoryRepo.WithTx(tx)

		// Ownership checks inside the tx scope; a foreign or missing wallet
		// aborts before anything is written.
		if _, err := walletRepo.GetById(ctx, userId, req.FromWalletId); err != nil {
			return err
		}
		if _, err := walletRepo.GetById(ctx, userId, req.ToWalletId); err != nil {
			return err
		}

		outCat, err := categoryRepo.EnsureByTag(ctx, userId, category.TagTransferOut)
		if err != nil {
			return err
		}
		inCat, err := categoryRepo.EnsureByTag(ctx, userId, category.TagTransferIn)
		if err != nil {
			return err
		}

		outTx := transaction.Transaction{
			WalletId:    req.FromWalletId,
			CategoryId:  outCat.ID,
			Kind:        category.KindExpense,
			Amount:      req.Amount,
			Date:        req.Date,
			Note:        req.Note,
			TransferUid: result.Uid,
		}
		if outTx.ID, err = txRepo.Store(ctx, userId, outTx); err != nil {
			return err
		}

		inTx := transaction.Transaction{
			WalletId:    req.ToWalletId,
			CategoryId:  inCat.ID,
			Kind:        category.KindIncome,
			Amount:      req.Amount,
			Date:        req.Date,
			Note:        req.Note,
			TransferUid: result.Uid,
		}
		if inTx.ID, err = txRepo.Store(ctx, userId, inTx); err != nil {
			return err
		}

		result.OutTx = outTx
		result.InTx = inTx

		sourceDelta := req.Amount.Neg()
		if req.Fee.IsPositive() {
			feeCat, err := categoryRepo.EnsureByTag(ctx, userId, category.TagTransferFee)
			if err != nil {
				return err
			}
			feeTx := transaction.Transaction{
				WalletId:    req.FromWalletId,
				CategoryId:  feeCat.ID,
				Kind:        category.KindExpense,
				Amount:      req.Fee,
				Date:        req.Date,
				Note:        req.Note,
				TransferUid: result.Uid,
			}
			if feeTx.ID, err = txRepo.Store(ctx, userId, feeTx); err != nil {
				return err
			}
			result.FeeTx = &feeTx
			sourceDelta = sourceDelta.Sub(req.Fee)
		}

		if err := walletRepo.ApplyDelta(ctx, userId, req.FromWalletId, sourceDelta); err != nil {
			return err
		}
		return walletRepo.ApplyDelta(ctx, userId, req.ToWalletId, req.Amount)
	})
	if err != nil {
		return Result{}, err
	}

	log.Debugf("transfer %s committed: wallet %d -> wallet %d, amount %s, fee %s",
		result.Uid, req.FromWalletId, req.ToWalletId, req.Amount, req.Fee)
	return result, nil
}
