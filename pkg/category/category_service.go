package category

import (
	"context"
	"fmt"

	"github.com/kantong/kantong/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewCategoryService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetById(ctx, userId, id)
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !category.Kind.Valid() {
		return Category{}, ErrInvalidKind
	}
	// System tags are assigned internally, never by callers.
	category.Tag = ""

	id, err := s.repo.Store(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	category.ID = id
	return category, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (Category, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !category.Kind.Valid() {
		return Category{}, ErrInvalidKind
	}

	existing, err := s.repo.GetById(ctx, userId, category.ID)
	if err != nil {
		return Category{}, err
	}
	if existing.Kind != category.Kind {
		if existing.IsDefault {
			return Category{}, ErrCategoryInUse
		}
		referenced, err := s.repo.IsReferenced(ctx, userId, category.ID)
		if err != nil {
			return Category{}, err
		}
		if referenced {
			return Category{}, ErrCategoryInUse
		}
	}

	updated, err := s.repo.Update(ctx, userId, category)
	if err != nil {
		return Category{}, err
	}
	if !updated {
		return Category{}, ErrCategoryNotFound
	}
	category.IsDefault = existing.IsDefault
	category.Tag = existing.Tag
	return category, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	existing, err := s.repo.GetById(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if existing.IsDefault {
		return false, ErrDefaultCategory
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("category not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return false, ErrCategoryNotFound
	}
	return true, nil
}

