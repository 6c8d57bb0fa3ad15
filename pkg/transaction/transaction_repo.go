package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kantong/kantong/internal/database"
	"github.com/kantong/kantong/pkg/category"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, tx Transaction) (int, error)
	GetById(ctx context.Context, userId int, txId int) (Transaction, error)
	List(ctx context.Context, userId int, from, to time.Time) ([]Transaction, error)
	ListByWallet(ctx context.Context, userId int, walletId int) ([]Transaction, error)
	Update(ctx context.Context, userId int, tx Transaction) (bool, error)
	Delete(ctx context.Context, userId int, txId int) (bool, error)
	SumsByWallet(ctx context.Context, userId int, walletId int) (decimal.Decimal, decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, userId int, categoryId int, from, to time.Time) (decimal.Decimal, error)
	DailyExpenseTotals(ctx context.Context, userId int, from, to time.Time) (map[string]decimal.Decimal, error)
}

type RepoImpl struct {
	db database.DBTX
}

func NewTransactionRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

// WithTx returns a copy of the repository bound to tx so ledger rows can be
// written in the same transaction as wallet balance updates.
func (r *RepoImpl) WithTx(tx *sql.Tx) *RepoImpl {
	return &RepoImpl{db: tx}
}

const txColumns = `id, wallet_id, category_id, kind, amount, date, note, transfer_uid`

func (r *RepoImpl) Store(ctx context.Context, userId int, t Transaction) (int, error) {
	query := `INSERT INTO transactions (user_id, wallet_id, category_id, kind, amount, date, note, transfer_uid)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var transferUid any
	if t.TransferUid != "" {
		transferUid = t.TransferUid
	}
	result, err := r.db.ExecContext(ctx, query,
		userId,
		t.WalletId,
		t.CategoryId,
		string(t.Kind),
		t.Amount.String(),
		formatDate(t.Date),
		t.Note,
		transferUid,
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

func (r *RepoImpl) GetById(ctx context.Context, userId int, txId int) (Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, txId, userId)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	} else if err != nil {
		log.Error(err)
		return Transaction{}, err
	}
	return t, nil
}

func (r *RepoImpl) List(ctx context.Context, userId int, from, to time.Time) ([]Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
				WHERE user_id = ? AND date >= ? AND date < ? ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, userId, formatDate(from), formatDate(to))
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *RepoImpl) ListByWallet(ctx context.Context, userId int, walletId int) ([]Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
				WHERE user_id = ? AND wallet_id = ? ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, userId, walletId)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *RepoImpl) Update(ctx context.Context, userId int, t Transaction) (bool, error) {
	query := `UPDATE transactions SET
				  wallet_id = ?,
				  category_id = ?,
				  kind = ?,
				  amount = ?,
				  date = ?,
				  note = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		t.WalletId,
		t.CategoryId,
		string(t.Kind),
		t.Amount.String(),
		formatDate(t.Date),
		t.Note,
		t.ID,
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, txId int) (bool, error) {
	query := `DELETE FROM transactions WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, txId, userId)
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

// SumsByWallet returns the income and expense totals of a wallet's ledger.
// Amounts are summed in Go because they are stored as decimal text; SQL SUM
// would fall back to binary floats.
func (r *RepoImpl) SumsByWallet(ctx context.Context, userId int, walletId int) (decimal.Decimal, decimal.Decimal, error) {
	query := `SELECT kind, amount FROM transactions WHERE user_id = ? AND wallet_id = ?`
	rows, err := r.db.QueryContext(ctx, query, userId, walletId)
	if err != nil {
		err := fmt.Errorf("could not query transaction sums: %w", err)
		log.Error(err)
		return decimal.Zero, decimal.Zero, err
	}
	defer rows.Close()

	income, expense := decimal.Zero, decimal.Zero
	for rows.Next() {
		var kind, amountStr string
		if err := rows.Scan(&kind, &amountStr); err != nil {
			err := fmt.Errorf("could not scan transaction: %w", err)
			log.Error(err)
			return decimal.Zero, decimal.Zero, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("could not parse amount: %w", err)
		}
		if category.Kind(kind) == category.KindExpense {
			expense = expense.Add(amount)
		} else {
			income = income.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return decimal.Zero, decimal.Zero, err
	}
	return income, expense, nil
}

func (r *RepoImpl) SumExpensesByCategory(ctx context.Context, userId int, categoryId int, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT amount FROM transactions
				WHERE user_id = ? AND category_id = ? AND kind = ? AND date >= ? AND date < ?`
	rows, err := r.db.QueryContext(ctx, query, userId, categoryId, string(category.KindExpense), formatDate(from), formatDate(to))
	if err != nil {
		err := fmt.Errorf("could not query expense sums: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			err := fmt.Errorf("could not scan amount: %w", err)
			log.Error(err)
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return decimal.Zero, fmt.Errorf("could not parse amount: %w", err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return decimal.Zero, err
	}
	return total, nil
}

// DailyExpenseTotals returns the expense total for every day (keyed
// "YYYY-MM-DD") that has at least one expense inside [from, to).
func (r *RepoImpl) DailyExpenseTotals(ctx context.Context, userId int, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `SELECT date, amount FROM transactions
				WHERE user_id = ? AND kind = ? AND date >= ? AND date < ?`
	rows, err := r.db.QueryContext(ctx, query, userId, string(category.KindExpense), formatDate(from), formatDate(to))
	if err != nil {
		err := fmt.Errorf("could not query daily expense totals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	totals := map[string]decimal.Decimal{}
	for rows.Next() {
		var dateStr, amountStr string
		if err := rows.Scan(&dateStr, &amountStr); err != nil {
			err := fmt.Errorf("could not scan daily total: %w", err)
			log.Error(err)
			return nil, err
		}
		date, err := parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("could not parse amount: %w", err)
		}
		key := date.Format("2006-01-02")
		totals[key] = totals[key].Add(amount)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return totals, nil
}

func collectTransactions(rows *sql.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func scanTransaction(scan func(dest ...any) error) (Transaction, error) {
	var t Transaction
	var kind, amountStr, dateStr string
	var transferUid sql.NullString
	if err := scan(&t.ID, &t.WalletId, &t.CategoryId, &kind, &amountStr, &dateStr, &t.Note, &transferUid); err != nil {
		return Transaction{}, err
	}
	t.Kind = category.Kind(kind)

	var err error
	if t.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return Transaction{}, fmt.Errorf("could not parse amount: %w", err)
	}
	if t.Date, err = parseDate(dateStr); err != nil {
		return Transaction{}, err
	}
	if transferUid.Valid {
		t.TransferUid = transferUid.String
	}
	return t, nil
}

// Dates are stored as UTC RFC3339 text, so lexicographic comparison in SQL
// matches chronological order.
func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q: %w", s, err)
	}
	return t, nil
}
