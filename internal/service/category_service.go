package service

import (
	"context"
	"errors"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
)

type CategoryService interface {
	Create(ctx context.Context, name string) (*entity.Category, error)
	ListAll(ctx context.Context) ([]entity.Category, error)
	ListPaged(ctx context.Context, page, limit int) (*repository.ListCategoriesResult, error)
	Get(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, id string, name *string) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	log          logger.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository, log logger.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

func (s *categoryService) Create(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, validationf("please provide a category name")
	}

	category := &entity.Category{Name: name}
	if _, err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictf("category already exists")
		}
		s.log.Errorf("CreateCategory: %v", err)
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListAll(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.ListAll(ctx)
}

func (s *categoryService) ListPaged(ctx context.Context, page, limit int) (*repository.ListCategoriesResult, error) {
	return s.categoryRepo.List(ctx, repository.ListCategoriesParams{Page: page, Limit: limit})
}

func (s *categoryService) Get(ctx context.Context, id string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return nil, validationf("invalid category id")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundf("category not found")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, name *string) (*entity.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		category.Name = *name
	}
	if category.Name == "" {
		return nil, validationf("category name cannot be empty")
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, conflictf("category already exists")
		}
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that products still reference, so the
// catalog never holds dangling category ids.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	inUse, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return conflictf("category is referenced by %d products", inUse)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundf("category not found")
		}
		return err
	}
	return nil
}
