package service

import (
	"context"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepository) List(ctx context.Context, params repository.ListUsersParams) (*repository.ListUsersResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListUsersResult), args.Error(1)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) (string, error) {
	args := m.Called(ctx, category)
	return args.String(0), args.Error(1)
}
func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}
func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}
func (m *MockCategoryRepository) GetByNames(ctx context.Context, names []string) ([]entity.Category, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}
func (m *MockCategoryRepository) ListAll(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}
func (m *MockCategoryRepository) List(ctx context.Context, params repository.ListCategoriesParams) (*repository.ListCategoriesResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListCategoriesResult), args.Error(1)
}
func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}
func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) (string, error) {
	args := m.Called(ctx, product)
	return args.String(0), args.Error(1)
}
func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*repository.ProductWithRefs, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ProductWithRefs), args.Error(1)
}
func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}
func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) (*repository.ListProductsResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListProductsResult), args.Error(1)
}
func (m *MockProductRepository) Search(ctx context.Context, query string) ([]repository.ProductWithRefs, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ProductWithRefs), args.Error(1)
}
func (m *MockProductRepository) GroupedByCategory(ctx context.Context, perCategory int) ([]repository.CategoryGroup, error) {
	args := m.Called(ctx, perCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryGroup), args.Error(1)
}
func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}
func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*repository.OrderWithRefs, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OrderWithRefs), args.Error(1)
}
func (m *MockOrderRepository) ListForUser(ctx context.Context, userID string) ([]repository.OrderWithRefs, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.OrderWithRefs), args.Error(1)
}
func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}
func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
func (m *MockStorage) RemoveIfExists(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockGroupedCache struct{ mock.Mock }

func (m *MockGroupedCache) GetGrouped(ctx context.Context) ([]repository.CategoryGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryGroup), args.Error(1)
}
func (m *MockGroupedCache) SetGrouped(ctx context.Context, groups []repository.CategoryGroup) error {
	args := m.Called(ctx, groups)
	return args.Error(0)
}
func (m *MockGroupedCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, to []string, subject, bodyText string) error {
	args := m.Called(ctx, to, subject, bodyText)
	return args.Error(0)
}
