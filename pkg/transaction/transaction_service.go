package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kantong/kantong/internal/database"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Get(ctx context.Context, id int) (Transaction, error)
	List(ctx context.Context, from, to time.Time) ([]Transaction, error)
	Create(ctx context.Context, t Transaction) (Transaction, error)
	Update(ctx context.Context, t Transaction) (Transaction, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// ServiceImpl owns every single-row mutation of the ledger. Each mutation
// writes the row and the wallet's balance delta in one transaction, keeping
// the cached running total consistent with the log at every commit.
type ServiceImpl struct {
	db           *sql.DB
	repo         *RepoImpl
	walletRepo   *wallet.RepoImpl
	categoryRepo category.Repo
}

func NewTransactionService(db *sql.DB, repo *RepoImpl, walletRepo *wallet.RepoImpl, categoryRepo category.Repo) *ServiceImpl {
	return &ServiceImpl{db: db, repo: repo, walletRepo: walletRepo, categoryRepo: categoryRepo}
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetById(ctx, userId, id)
}

func (s *ServiceImpl) List(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.List(ctx, userId, from, to)
}

func (s *ServiceImpl) Create(ctx context.Context, t Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, t); err != nil {
		return Transaction{}, err
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	// Ledger rows never carry a transfer uid unless created by the transfer
	// coordinator.
	t.TransferUid = ""

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err := s.repo.WithTx(tx).Store(ctx, userId, t)
		if err != nil {
			return err
		}
		t.ID = id
		return s.walletRepo.WithTx(tx).ApplyDelta(ctx, userId, t.WalletId, t.SignedAmount())
	})
	if err != nil {
		return Transaction{}, err
	}
	log.Debugf("transaction %d created on wallet %d", t.ID, t.WalletId)
	return t, nil
}

// Update edits a ledger row and re-balances the affected wallet(s) by the
// delta between old and new row. Moving a row across wallets reverses the
// full old amount on the old wallet and applies the new one on the new.
func (s *ServiceImpl) Update(ctx context.Context, t Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, t); err != nil {
		return Transaction{}, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		walletRepo := s.walletRepo.WithTx(tx)

		old, err := txRepo.GetById(ctx, userId, t.ID)
		if err != nil {
			return err
		}
		if t.Date.IsZero() {
			t.Date = old.Date
		}
		t.TransferUid = old.TransferUid

		ok, err := txRepo.Update(ctx, userId, t)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransactionNotFound
		}

		if old.WalletId == t.WalletId {
			delta := t.SignedAmount().Sub(old.SignedAmount())
			if delta.IsZero() {
				return nil
			}
			return walletRepo.ApplyDelta(ctx, userId, t.WalletId, delta)
		}
		if err := walletRepo.ApplyDelta(ctx, userId, old.WalletId, old.SignedAmount().Neg()); err != nil {
			return err
		}
		return walletRepo.ApplyDelta(ctx, userId, t.WalletId, t.SignedAmount())
	})
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		old, err := txRepo.GetById(ctx, userId, id)
		if err != nil {
			return err
		}
		ok, err := txRepo.Delete(ctx, userId, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransactionNotFound
		}
		return s.walletRepo.WithTx(tx).ApplyDelta(ctx, userId, old.WalletId, old.SignedAmount().Neg())
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) validate(ctx context.Context, userId int, t Transaction) error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	cat, err := s.categoryRepo.GetById(ctx, userId, t.CategoryId)
	if err != nil {
		return err
	}
	if t.Kind != cat.Kind {
		return ErrKindMismatch
	}
	if _, err := s.walletRepo.GetById(ctx, userId, t.WalletId); err != nil {
		return err
	}
	return nil
}
