package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kantong/kantong/internal/database"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, goal Goal) (int, error)
	GetAll(ctx context.Context, userId int) ([]Goal, error)
	GetById(ctx context.Context, userId int, goalId int) (Goal, error)
	Update(ctx context.Context, userId int, goal Goal) (bool, error)
	Delete(ctx context.Context, userId int, goalId int) (bool, error)
}

type RepoImpl struct {
	db database.DBTX
}

func NewGoalRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, goal Goal) (int, error) {
	query := `INSERT INTO goal (user_id, name, target_amount, current_amount, deadline, note)
				VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		userId, goal.Name, goal.Target.String(), goal.Current.String(), formatDeadline(goal.Deadline), goal.Note)
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

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	query := `SELECT id, name, target_amount, current_amount, deadline, note FROM goal
				WHERE user_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query goals: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		goal, err := scanGoal(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return goals, nil
}

func (r *RepoImpl) GetById(ctx context.Context, userId int, goalId int) (Goal, error) {
	query := `SELECT id, name, target_amount, current_amount, deadline, note FROM goal
				WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, goalId, userId)
	goal, err := scanGoal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	} else if err != nil {
		log.Error(err)
		return Goal{}, err
	}
	return goal, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, goal Goal) (bool, error) {
	query := `UPDATE goal SET name = ?, target_amount = ?, current_amount = ?, deadline = ?, note = ?
				WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		goal.Name, goal.Target.String(), goal.Current.String(), formatDeadline(goal.Deadline), goal.Note,
		goal.ID, userId)
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

func (r *RepoImpl) Delete(ctx context.Context, userId int, goalId int) (bool, error) {
	query := `DELETE FROM goal WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, goalId, userId)
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

func formatDeadline(deadline *time.Time) any {
	if deadline == nil {
		return nil
	}
	return deadline.UTC().Format(time.RFC3339)
}

func scanGoal(scan func(dest ...any) error) (Goal, error) {
	var goal Goal
	var targetStr, currentStr string
	var deadlineStr sql.NullString
	if err := scan(&goal.ID, &goal.Name, &targetStr, &currentStr, &deadlineStr, &goal.Note); err != nil {
		return Goal{}, err
	}
	var err error
	if goal.Target, err = decimal.NewFromString(targetStr); err != nil {
		return Goal{}, fmt.Errorf("could not parse goal target: %w", err)
	}
	if goal.Current, err = decimal.NewFromString(currentStr); err != nil {
		return Goal{}, fmt.Errorf("could not parse goal current amount: %w", err)
	}
	if deadlineStr.Valid {
		deadline, err := time.Parse(time.RFC3339, deadlineStr.String)
		if err != nil {
			return Goal{}, fmt.Errorf("could not parse goal deadline: %w", err)
		}
		goal.Deadline = &deadline
	}
	return goal, nil
}
