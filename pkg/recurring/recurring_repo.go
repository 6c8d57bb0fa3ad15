package recurring

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
	Store(ctx context.Context, userId int, rule Rule) (int, error)
	GetAll(ctx context.Context, userId int) ([]Rule, error)
	GetById(ctx context.Context, userId int, ruleId int) (Rule, error)
	FindDue(ctx context.Context, userId int, now time.Time) ([]Rule, error)
	Update(ctx context.Context, userId int, rule Rule) (bool, error)
	UpdateNextRun(ctx context.Context, userId int, ruleId int, nextRun time.Time) (bool, error)
	Delete(ctx context.Context, userId int, ruleId int) (bool, error)
}

type RepoImpl struct {
	db database.DBTX
}

func NewRecurringRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

// WithTx returns a copy of the repository bound to tx. Rule advancement joins
// the processing batch's transaction so a crash never leaves a rule advanced
// without its materialized transaction.
func (r *RepoImpl) WithTx(tx *sql.Tx) *RepoImpl {
	return &RepoImpl{db: tx}
}

const ruleColumns = `id, wallet_id, category_id, kind, amount, cadence, next_run, note`

func (r *RepoImpl) Store(ctx context.Context, userId int, rule Rule) (int, error) {
	query := `INSERT INTO recurring_rule (user_id, wallet_id, category_id, kind, amount, cadence, next_run, note)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		userId,
		rule.WalletId,
		rule.CategoryId,
		string(rule.Kind),
		rule.Amount.String(),
		string(rule.Cadence),
		formatTime(rule.NextRun),
		rule.Note,
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

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rule WHERE user_id = ? ORDER BY next_run, id`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query recurring rules: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func (r *RepoImpl) GetById(ctx context.Context, userId int, ruleId int) (Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rule WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, ruleId, userId)
	rule, err := scanRule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Rule{}, ErrRuleNotFound
	} else if err != nil {
		log.Error(err)
		return Rule{}, err
	}
	return rule, nil
}

// FindDue returns the user's rules with next_run at or before now.
func (r *RepoImpl) FindDue(ctx context.Context, userId int, now time.Time) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rule
				WHERE user_id = ? AND next_run <= ? ORDER BY next_run, id`
	rows, err := r.db.QueryContext(ctx, query, userId, formatTime(now))
	if err != nil {
		err := fmt.Errorf("could not query due rules: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func (r *RepoImpl) Update(ctx context.Context, userId int, rule Rule) (bool, error) {
	query := `UPDATE recurring_rule SET
				  wallet_id = ?,
				  category_id = ?,
				  kind = ?,
				  amount = ?,
				  cadence = ?,
				  next_run = ?,
				  note = ?
			  WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		rule.WalletId,
		rule.CategoryId,
		string(rule.Kind),
		rule.Amount.String(),
		string(rule.Cadence),
		formatTime(rule.NextRun),
		rule.Note,
		rule.ID,
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

func (r *RepoImpl) UpdateNextRun(ctx context.Context, userId int, ruleId int, nextRun time.Time) (bool, error) {
	query := `UPDATE recurring_rule SET next_run = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, formatTime(nextRun), ruleId, userId)
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, ruleId int) (bool, error) {
	query := `DELETE FROM recurring_rule WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, ruleId, userId)
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

func collectRules(rows *sql.Rows) ([]Rule, error) {
	var rules []Rule
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return rules, nil
}

func scanRule(scan func(dest ...any) error) (Rule, error) {
	var rule Rule
	var kind, amountStr, cadence, nextRunStr string
	if err := scan(&rule.ID, &rule.WalletId, &rule.CategoryId, &kind, &amountStr, &cadence, &nextRunStr, &rule.Note); err != nil {
		return Rule{}, err
	}
	rule.Kind = category.Kind(kind)
	rule.Cadence = Cadence(cadence)

	var err error
	if rule.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return Rule{}, fmt.Errorf("could not parse amount: %w", err)
	}
	if rule.NextRun, err = time.Parse(time.RFC3339, nextRunStr); err != nil {
		return Rule{}, fmt.Errorf("could not parse next run %q: %w", nextRunStr, err)
	}
	return rule, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
