package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/category"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/category/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.Logger
}

func NewCategoryUseCase(repo category.Repository, log logger.Logger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:      strings.TrimSpace(input.Name),
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if input.Description != "" {
		desc := input.Description
		cat.Description = &desc
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "category %d not found", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	return uc.repo.FindAll(ctx, includeInactive)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "category %d not found", input.ID)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}

	cat.Name = strings.TrimSpace(input.Name)
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	if input.Description != "" {
		desc := input.Description
		cat.Description = &desc
	} else {
		cat.Description = nil
	}
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.repo.Deactivate(ctx, id)
}
