package budget

import (
	"context"
)

type StubBudgetRepo struct {
	nextId int
	data   map[int]Budget
	owner  map[int]int
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{data: map[int]Budget{}, owner: map[int]int{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	for id, b := range s.data {
		if s.owner[id] == userId && b.CategoryId == budget.CategoryId && b.Month == budget.Month {
			return 0, ErrDuplicateBudget
		}
	}
	s.nextId++
	budget.ID = s.nextId
	s.data[budget.ID] = budget
	s.owner[budget.ID] = userId
	return budget.ID, nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, userId int, month string) ([]Budget, error) {
	budgets := make([]Budget, 0, len(s.data))
	for id, b := range s.data {
		if s.owner[id] == userId && b.Month == month {
			budgets = append(budgets, b)
		}
	}
	return budgets, nil
}

func (s *StubBudgetRepo) GetById(ctx context.Context, userId int, budgetId int) (Budget, error) {
	b, ok := s.data[budgetId]
	if !ok || s.owner[budgetId] != userId {
		return Budget{}, ErrBudgetNotFound
	}
	return b, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	existing, ok := s.data[budget.ID]
	if !ok || s.owner[budget.ID] != userId {
		return false, nil
	}
	existing.Cap = budget.Cap
	s.data[budget.ID] = existing
	return true, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	if _, ok := s.data[budgetId]; !ok || s.owner[budgetId] != userId {
		return false, nil
	}
	delete(s.data, budgetId)
	delete(s.owner, budgetId)
	return true, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[int]Budget{}
	s.owner = map[int]int{}
	s.nextId = 0
}
