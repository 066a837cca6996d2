package service

import (
	"context"
	"testing"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCategoryService(categoryRepo *MockCategoryRepository, productRepo *MockProductRepository) CategoryService {
	return NewCategoryService(categoryRepo, productRepo, logger.NewNop())
}

func TestCategoryService_Create_EmptyName(t *testing.T) {
	svc := newCategoryService(new(MockCategoryRepository), new(MockProductRepository))

	_, err := svc.Create(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Return("", repository.ErrDuplicateKey)

	svc := newCategoryService(categoryRepo, new(MockProductRepository))

	_, err := svc.Create(context.Background(), "Electronics")
	assert.ErrorIs(t, err, ErrConflict)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_Create_Success(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Category")).
		Return(primitive.NewObjectID().Hex(), nil)

	svc := newCategoryService(categoryRepo, new(MockProductRepository))

	category, err := svc.Create(context.Background(), "Electronics")
	assert.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
}

func TestCategoryService_Delete_BlockedWhileReferenced(t *testing.T) {
	id := primitive.NewObjectID()
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", mock.Anything, id.Hex()).
		Return(&entity.Category{ID: id, Name: "Cars"}, nil)

	productRepo := new(MockProductRepository)
	productRepo.On("CountByCategory", mock.Anything, id.Hex()).Return(int64(3), nil)

	svc := newCategoryService(categoryRepo, productRepo)

	err := svc.Delete(context.Background(), id.Hex())
	assert.ErrorIs(t, err, ErrConflict)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Delete_Unreferenced(t *testing.T) {
	id := primitive.NewObjectID()
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", mock.Anything, id.Hex()).
		Return(&entity.Category{ID: id, Name: "Cars"}, nil)
	categoryRepo.On("Delete", mock.Anything, id.Hex()).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("CountByCategory", mock.Anything, id.Hex()).Return(int64(0), nil)

	svc := newCategoryService(categoryRepo, productRepo)

	err := svc.Delete(context.Background(), id.Hex())
	assert.NoError(t, err)
	categoryRepo.AssertExpectations(t)
}

func TestCategoryService_Delete_NotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", mock.Anything, mock.Anything).
		Return(nil, repository.ErrNotFound)

	svc := newCategoryService(categoryRepo, new(MockProductRepository))

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_Delete_MalformedID(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", mock.Anything, "not-an-id").
		Return(nil, repository.ErrInvalidID)

	svc := newCategoryService(categoryRepo, new(MockProductRepository))

	err := svc.Delete(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_Update_Partial(t *testing.T) {
	id := primitive.NewObjectID()
	categoryRepo := new(MockCategoryRepository)
	categoryRepo.On("GetByID", mock.Anything, id.Hex()).
		Return(&entity.Category{ID: id, Name: "Old"}, nil)
	categoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.Name == "New"
	})).Return(nil)

	svc := newCategoryService(categoryRepo, new(MockProductRepository))

	name := "New"
	category, err := svc.Update(context.Background(), id.Hex(), &name)
	assert.NoError(t, err)
	assert.Equal(t, "New", category.Name)
}
