package goal

import (
	"context"
	"fmt"

	"github.com/kantong/kantong/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, goal Goal) (Goal, error)
	GetAll(ctx context.Context) ([]Goal, error)
	GetById(ctx context.Context, id int) (Goal, error)
	Update(ctx context.Context, goal Goal) (Goal, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewGoalService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := goal.validate(); err != nil {
		return Goal{}, err
	}

	id, err := s.repo.Store(ctx, userId, goal)
	if err != nil {
		return Goal{}, err
	}
	goal.ID = id
	return goal, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetById(ctx, userId, id)
}

func (s *ServiceImpl) Update(ctx context.Context, goal Goal) (Goal, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Goal{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := goal.validate(); err != nil {
		return Goal{}, err
	}

	updated, err := s.repo.Update(ctx, userId, goal)
	if err != nil {
		return Goal{}, err
	}
	if !updated {
		log.Warnf("goal not updated, probably because it does not exist (%d) or the user (%d) is not the owner", goal.ID, userId)
		return Goal{}, ErrGoalNotFound
	}
	return goal, nil
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
		return false, ErrGoalNotFound
	}
	return true, nil
}
