package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kantong/kantong/internal/database"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, budget Budget) (int, error)
	GetAll(ctx context.Context, userId int, month string) ([]Budget, error)
	GetById(ctx context.Context, userId int, budgetId int) (Budget, error)
	Update(ctx context.Context, userId int, budget Budget) (bool, error)
	Delete(ctx context.Context, userId int, budgetId int) (bool, error)
}

type RepoImpl struct {
	db database.DBTX
}

func NewBudgetRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	query := `INSERT INTO budget (user_id, category_id, month, cap_amount) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, userId, budget.CategoryId, budget.Month, budget.Cap.String())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateBudget
		}
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

func (r *RepoImpl) GetAll(ctx context.Context, userId int, month string) ([]Budget, error) {
	query := `SELECT id, category_id, month, cap_amount FROM budget
				WHERE user_id = ? AND month = ? ORDER BY category_id`
	rows, err := r.db.QueryContext(ctx, query, userId, month)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var budgets []Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}

func (r *RepoImpl) GetById(ctx context.Context, userId int, budgetId int) (Budget, error) {
	query := `SELECT id, category_id, month, cap_amount FROM budget WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, budgetId, userId)
	budget, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	} else if err != nil {
		log.Error(err)
		return Budget{}, err
	}
	return budget, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	query := `UPDATE budget SET cap_amount = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, budget.Cap.String(), budget.ID, userId)
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	query := `DELETE FROM budget WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, budgetId, userId)
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

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func scanBudget(scan func(dest ...any) error) (Budget, error) {
	var budget Budget
	var capStr string
	if err := scan(&budget.ID, &budget.CategoryId, &budget.Month, &capStr); err != nil {
		return Budget{}, err
	}
	var err error
	if budget.Cap, err = decimal.NewFromString(capStr); err != nil {
		return Budget{}, fmt.Errorf("could not parse budget cap: %w", err)
	}
	return budget, nil
}
