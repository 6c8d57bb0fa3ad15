package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/kantong/kantong/internal/period"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ExpenseSums exposes the month's expense total of one category.
// Implemented by the transaction repository.
type ExpenseSums interface {
	SumExpensesByCategory(ctx context.Context, userId int, categoryId int, from, to time.Time) (decimal.Decimal, error)
}

type Service interface {
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (Budget, error)
	Delete(ctx context.Context, id int) (bool, error)
	WithProgress(ctx context.Context, month string) ([]Progress, error)
}

type ServiceImpl struct {
	repo         Repo
	categoryRepo category.Repo
	ledger       ExpenseSums
}

func NewBudgetService(repo Repo, categoryRepo category.Repo, ledger ExpenseSums) *ServiceImpl {
	return &ServiceImpl{repo: repo, categoryRepo: categoryRepo, ledger: ledger}
}

func (s *ServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, budget); err != nil {
		return Budget{}, err
	}

	id, err := s.repo.Store(ctx, userId, budget)
	if err != nil {
		return Budget{}, err
	}
	budget.ID = id
	return budget, nil
}

func (s *ServiceImpl) Update(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !budget.Cap.IsPositive() {
		return Budget{}, ErrInvalidCap
	}

	updated, err := s.repo.Update(ctx, userId, budget)
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%d) or the user (%d) is not the owner", budget.ID, userId)
		return Budget{}, ErrBudgetNotFound
	}
	return s.repo.GetById(ctx, userId, budget.ID)
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
		return false, ErrBudgetNotFound
	}
	return true, nil
}

// WithProgress joins the month's budgets with the ledger's per-category
// expense sums. Read-only: progress is recomputed on every call.
func (s *ServiceImpl) WithProgress(ctx context.Context, month string) ([]Progress, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	window, err := period.Parse(month)
	if err != nil {
		return nil, err
	}

	budgets, err := s.repo.GetAll(ctx, userId, month)
	if err != nil {
		return nil, err
	}

	progress := make([]Progress, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.ledger.SumExpensesByCategory(ctx, userId, b.CategoryId, window.Start, window.End)
		if err != nil {
			return nil, err
		}
		progress = append(progress, progressOf(b, spent))
	}
	return progress, nil
}

func (s *ServiceImpl) validate(ctx context.Context, userId int, budget Budget) error {
	if !budget.Cap.IsPositive() {
		return ErrInvalidCap
	}
	if _, err := period.Parse(budget.Month); err != nil {
		return err
	}
	cat, err := s.categoryRepo.GetById(ctx, userId, budget.CategoryId)
	if err != nil {
		return err
	}
	if cat.Kind != category.KindExpense {
		return ErrNotExpense
	}
	return nil
}
