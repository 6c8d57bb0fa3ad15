package wallet

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kantong/kantong/internal/database"
	"github.com/kantong/kantong/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// LedgerSums exposes the per-wallet signed sums of the transaction log.
// Implemented by the transaction repository.
type LedgerSums interface {
	SumsByWallet(ctx context.Context, userId int, walletId int) (income decimal.Decimal, expense decimal.Decimal, err error)
}

type Service interface {
	GetAll(ctx context.Context) ([]Wallet, error)
	Get(ctx context.Context, id int) (Wallet, error)
	Create(ctx context.Context, wallet Wallet) (Wallet, error)
	Update(ctx context.Context, wallet Wallet) (Wallet, error)
	Delete(ctx context.Context, id int) (bool, error)
	Balance(ctx context.Context, walletId int) (decimal.Decimal, error)
}

type ServiceImpl struct {
	db     *sql.DB
	repo   *RepoImpl
	ledger LedgerSums
}

func NewWalletService(db *sql.DB, repo *RepoImpl, ledger LedgerSums) *ServiceImpl {
	return &ServiceImpl{db: db, repo: repo, ledger: ledger}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Wallet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Wallet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetById(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, wallet Wallet) (Wallet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if wallet.Kind == "" {
		wallet.Kind = KindCash
	}
	if !wallet.Kind.Valid() {
		return Wallet{}, ErrInvalidKind
	}
	if wallet.Currency == "" {
		wallet.Currency = "IDR"
	}
	// A fresh wallet has no transactions yet, so the running total starts at
	// the recorded baseline.
	wallet.CurrentBalance = wallet.InitialBalance

	id, err := s.repo.Store(ctx, userId, wallet)
	if err != nil {
		return Wallet{}, err
	}
	wallet.ID = id
	return wallet, nil
}

// Update edits wallet metadata. An explicit change of the initial balance
// shifts the running total by the same delta, keeping the balance invariant
// intact without touching the ledger.
func (s *ServiceImpl) Update(ctx context.Context, wallet Wallet) (Wallet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !wallet.Kind.Valid() {
		return Wallet{}, ErrInvalidKind
	}

	var updated Wallet
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		existing, err := txRepo.GetById(ctx, userId, wallet.ID)
		if err != nil {
			return err
		}

		delta := wallet.InitialBalance.Sub(existing.InitialBalance)
		wallet.CurrentBalance = existing.CurrentBalance.Add(delta)

		ok, err := txRepo.Update(ctx, userId, wallet)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWalletNotFound
		}
		updated = wallet
		return nil
	})
	if err != nil {
		return Wallet{}, err
	}
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("wallet not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return false, ErrWalletNotFound
	}
	return true, nil
}

// Balance derives the wallet's balance from the transaction log:
// initial balance plus income minus expense. It never reads the cached
// running total, which makes it the reference the cache is verified against.
func (s *ServiceImpl) Balance(ctx context.Context, walletId int) (decimal.Decimal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get current user: %w", err)
	}

	wallet, err := s.repo.GetById(ctx, userId, walletId)
	if err != nil {
		return decimal.Zero, err
	}

	income, expense, err := s.ledger.SumsByWallet(ctx, userId, walletId)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.InitialBalance.Add(income).Sub(expense), nil
}
