package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/google/uuid"
)

type CategoryService struct {
	Categories store.CategoryStore
	Now        func() time.Time
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	out, err := s.Categories.ListCategories(ctx)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	if out == nil {
		out = []models.Category{}
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.Categories.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	now := clock(s.Now)
	c := &models.Category{ID: uuid.New(), Name: name, Description: req.Description, CreatedAt: now, UpdatedAt: now}
	if err := s.Categories.CreateCategory(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	c, err := s.Categories.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	c.Name = name
	c.Description = req.Description
	c.UpdatedAt = clock(s.Now)
	if err := s.Categories.UpdateCategory(ctx, c); err != nil {
		return nil, storeErr(err, "category")
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return storeErr(s.Categories.DeleteCategory(ctx, id), "category")
}
