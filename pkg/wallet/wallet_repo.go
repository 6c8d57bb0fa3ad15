package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kantong/kantong/internal/database"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, wallet Wallet) (int, error)
	GetAll(ctx context.Context, userId int) ([]Wallet, error)
	GetById(ctx context.Context, userId int, walletId int) (Wallet, error)
	Update(ctx context.Context, userId int, wallet Wallet) (bool, error)
	Delete(ctx context.Context, userId int, walletId int) (bool, error)
	ApplyDelta(ctx context.Context, userId int, walletId int, delta decimal.Decimal) error
}

type RepoImpl struct {
	db database.DBTX
}

func NewWalletRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

// WithTx returns a copy of the repository bound to tx. Balance deltas for
// transfers and recurrence batches go through tx-bound repos so the cached
// balance and the ledger rows commit as one unit.
func (r *RepoImpl) WithTx(tx *sql.Tx) *RepoImpl {
	return &RepoImpl{db: tx}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, wallet Wallet) (int, error) {
	query := `INSERT INTO wallet (user_id, name, kind, currency, initial_balance, current_balance)
				VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		userId,
		wallet.Name,
		string(wallet.Kind),
		wallet.Currency,
		wallet.InitialBalance.String(),
		wallet.CurrentBalance.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Wallet, error) {
	query := `SELECT id, name, kind, currency, initial_balance, current_balance
				FROM wallet WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query wallets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return wallets, nil
}

func (r *RepoImpl) GetById(ctx context.Context, userId int, walletId int) (Wallet, error) {
	query := `SELECT id, name, kind, currency, initial_balance, current_balance
				FROM wallet WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, walletId, userId)
	wallet, err := scanWallet(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	} else if err != nil {
		log.Error(err)
		return Wallet{}, err
	}
	return wallet, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, wallet Wallet) (bool, error) {
	query := `UPDATE wallet SET
				  name = ?,
				  kind = ?,
				  currency = ?,
				  initial_balance = ?,
				  current_balance = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		wallet.Name,
		string(wallet.Kind),
		wallet.Currency,
		wallet.InitialBalance.String(),
		wallet.CurrentBalance.String(),
		wallet.ID,
		userId,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, walletId int) (bool, error) {
	query := `DELETE FROM wallet WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, walletId, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

// ApplyDelta shifts the cached running balance. Amounts are stored as decimal
// text, so this is a read-modify-write; callers needing atomicity with ledger
// rows must run it on a tx-bound repo.
func (r *RepoImpl) ApplyDelta(ctx context.Context, userId int, walletId int, delta decimal.Decimal) error {
	wallet, err := r.GetById(ctx, userId, walletId)
	if err != nil {
		return err
	}
	newBalance := wallet.CurrentBalance.Add(delta)

	query := `UPDATE wallet SET current_balance = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, newBalance.String(), walletId, userId)
	if err != nil {
		err := fmt.Errorf("could not update wallet balance: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected != 1 {
		return ErrWalletNotFound
	}
	return nil
}

func scanWallet(scan func(dest ...any) error) (Wallet, error) {
	var wallet Wallet
	var kind, initial, current string
	if err := scan(&wallet.ID, &wallet.Name, &kind, &wallet.Currency, &initial, &current); err != nil {
		return Wallet{}, err
	}
	wallet.Kind = WalletKind(kind)

	var err error
	if wallet.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return Wallet{}, fmt.Errorf("could not parse initial balance: %w", err)
	}
	if wallet.CurrentBalance, err = decimal.NewFromString(current); err != nil {
		return Wallet{}, fmt.Errorf("could not parse current balance: %w", err)
	}
	return wallet, nil
}
