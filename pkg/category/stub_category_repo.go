package category

import (
	"context"
)

type StubCategoryRepo struct {
	nextId     int
	data       map[int]Category
	referenced map[int]bool
}

func NewStubCategoryRepo() *StubCategoryRepo {
	return &StubCategoryRepo{data: map[int]Category{}, referenced: map[int]bool{}}
}

func (s *StubCategoryRepo) Store(ctx context.Context, userId int, category Category) (int, error) {
	s.nextId++
	category.ID = s.nextId
	s.data[category.ID] = category
	return category.ID, nil
}

func (s *StubCategoryRepo) GetAll(ctx context.Context, userId int) ([]Category, error) {
	categories := make([]Category, 0, len(s.data))
	for _, c := range s.data {
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *StubCategoryRepo) GetById(ctx context.Context, userId int, categoryId int) (Category, error) {
	c, ok := s.data[categoryId]
	if !ok {
		return Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (s *StubCategoryRepo) FindByTag(ctx context.Context, userId int, tag string) (Category, error) {
	for _, c := range s.data {
		if c.Tag == tag {
			return c, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

func (s *StubCategoryRepo) Update(ctx context.Context, userId int, category Category) (bool, error) {
	existing, ok := s.data[category.ID]
	if !ok {
		return false, nil
	}
	category.IsDefault = existing.IsDefault
	category.Tag = existing.Tag
	s.data[category.ID] = category
	return true, nil
}

func (s *StubCategoryRepo) Delete(ctx context.Context, userId int, categoryId int) (bool, error) {
	c, ok := s.data[categoryId]
	if !ok || c.IsDefault {
		return false, nil
	}
	delete(s.data, categoryId)
	return true, nil
}

func (s *StubCategoryRepo) IsReferenced(ctx context.Context, userId int, categoryId int) (bool, error) {
	return s.referenced[categoryId], nil
}

// MarkReferenced simulates transactions pointing at the category.
func (s *StubCategoryRepo) MarkReferenced(categoryId int) {
	s.referenced[categoryId] = true
}

func (s *StubCategoryRepo) Cleanup() {
	s.data = map[int]Category{}
	s.referenced = map[int]bool{}
	s.nextId = 0
}
