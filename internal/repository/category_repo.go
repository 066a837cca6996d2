package repository

import (
	"context"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
)

type ListCategoriesParams struct {
	Page  int
	Limit int
}

type ListCategoriesResult struct {
	Categories []entity.Category
	TotalCount int64
	TotalPages int
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	// GetByNames resolves each name to a category; names with no match are
	// simply absent from the result.
	GetByNames(ctx context.Context, names []string) ([]entity.Category, error)
	ListAll(ctx context.Context) ([]entity.Category, error)
	List(ctx context.Context, params ListCategoriesParams) (*ListCategoriesResult, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
}
