package services

import (
	"context"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context, filter types.Filter) ([]entities.Category, uint64, error)
	FindCategory(ctx context.Context, id uint64) (*entities.Category, error)
	CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.Category, error)
}

type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo repositories.CategoryRepositoryInterface, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

func (s *CategoryService) GetCategories(ctx context.Context, filter types.Filter) ([]entities.Category, uint64, error) {
	return s.categoryRepo.List(ctx, filter)
}

func (s *CategoryService) FindCategory(ctx context.Context, id uint64) (*entities.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, payload dto.CreateCategoryDTO) (*entities.Category, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.CategoryCreate); err != nil {
		return nil, err
	}

	category := &entities.Category{Name: payload.Name, Description: payload.Description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("category created", zap.Uint64("category_id", category.ID))
	return category, nil
}
