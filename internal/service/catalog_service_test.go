package service

import (
	"context"
	"testing"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/nats"
	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type catalogFixture struct {
	productRepo  *MockProductRepository
	categoryRepo *MockCategoryRepository
	userRepo     *MockUserRepository
	store        *MockStorage
	svc          CatalogService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		productRepo:  new(MockProductRepository),
		categoryRepo: new(MockCategoryRepository),
		userRepo:     new(MockUserRepository),
		store:        new(MockStorage),
	}
	f.svc = NewCatalogService(f.productRepo, f.categoryRepo, f.userRepo, f.store, nil, nats.NoopPublisher{}, 8, logger.NewNop())
	return f
}

func validCreateInput(category, sellerID string) CreateProductInput {
	return CreateProductInput{
		Title:       "Mountain bike",
		Description: "Hardly used",
		Condition:   entity.ConditionUsed,
		Category:    category,
		Price:       250,
		Location:    entity.Location{Area: "Downtown", City: "Almaty"},
		Contact:     entity.Contact{Name: "Aset", Email: "aset@example.com", Phone: "+7700"},
		SellerID:    sellerID,
	}
}

func TestCatalogService_Create_ResolvesCategoryByName(t *testing.T) {
	f := newCatalogFixture()
	categoryID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()

	f.categoryRepo.On("GetByName", mock.Anything, "Bikes").
		Return(&entity.Category{ID: categoryID, Name: "Bikes"}, nil)
	f.userRepo.On("GetByID", mock.Anything, sellerID.Hex()).
		Return(&entity.User{ID: sellerID}, nil)
	f.productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Category == categoryID && p.Seller == sellerID
	})).Return(primitive.NewObjectID().Hex(), nil)

	product, err := f.svc.Create(context.Background(), validCreateInput("Bikes", sellerID.Hex()))
	assert.NoError(t, err)
	assert.Equal(t, categoryID, product.Category)
}

func TestCatalogService_Create_ResolvesCategoryByID(t *testing.T) {
	f := newCatalogFixture()
	categoryID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()

	f.categoryRepo.On("GetByID", mock.Anything, categoryID.Hex()).
		Return(&entity.Category{ID: categoryID, Name: "Bikes"}, nil)
	f.userRepo.On("GetByID", mock.Anything, sellerID.Hex()).
		Return(&entity.User{ID: sellerID}, nil)
	f.productRepo.On("Create", mock.Anything, mock.Anything).
		Return(primitive.NewObjectID().Hex(), nil)

	product, err := f.svc.Create(context.Background(), validCreateInput(categoryID.Hex(), sellerID.Hex()))
	assert.NoError(t, err)
	// Supplying the id resolves to the same category as supplying the name.
	assert.Equal(t, categoryID, product.Category)
}

func TestCatalogService_Create_UnknownCategory(t *testing.T) {
	f := newCatalogFixture()
	f.categoryRepo.On("GetByName", mock.Anything, "Nope").
		Return(nil, repository.ErrNotFound)

	_, err := f.svc.Create(context.Background(), validCreateInput("Nope", primitive.NewObjectID().Hex()))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Create_MissingFields(t *testing.T) {
	f := newCatalogFixture()
	input := validCreateInput("Bikes", primitive.NewObjectID().Hex())
	input.Title = ""

	_, err := f.svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
	f.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func ownedProduct(sellerID primitive.ObjectID, images ...string) *repository.ProductWithRefs {
	return &repository.ProductWithRefs{
		Product: entity.Product{
			ID:          primitive.NewObjectID(),
			Title:       "Mountain bike",
			Description: "Hardly used",
			Condition:   entity.ConditionUsed,
			Category:    primitive.NewObjectID(),
			Price:       250,
			Location:    entity.Location{Area: "Downtown", City: "Almaty"},
			Contact:     entity.Contact{Name: "Aset", Email: "aset@example.com", Phone: "+7700"},
			Images:      images,
			Seller:      sellerID,
		},
	}
}

func TestCatalogService_Update_ForbiddenForNonOwner(t *testing.T) {
	f := newCatalogFixture()
	owner := primitive.NewObjectID()
	existing := ownedProduct(owner)
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)

	_, err := f.svc.Update(context.Background(), existing.ID.Hex(), ProductPatch{}, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	f.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Update_RemovesImagesStrictly(t *testing.T) {
	f := newCatalogFixture()
	owner := primitive.NewObjectID()
	existing := ownedProduct(owner, "uploads/a.jpg", "uploads/b.jpg")
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	f.store.On("Remove", mock.Anything, "uploads/a.jpg").Return(nil)
	f.productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return len(p.Images) == 1 && p.Images[0] == "uploads/b.jpg"
	})).Return(nil)

	updated, err := f.svc.Update(context.Background(), existing.ID.Hex(), ProductPatch{
		ImagesToDelete: []string{"uploads/a.jpg"},
	}, owner.Hex())
	assert.NoError(t, err)
	assert.Equal(t, []string{"uploads/b.jpg"}, updated.Images)
}

func TestCatalogService_Update_AbortsWhenImageFileMissing(t *testing.T) {
	f := newCatalogFixture()
	owner := primitive.NewObjectID()
	existing := ownedProduct(owner, "uploads/a.jpg")
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	f.store.On("Remove", mock.Anything, "uploads/a.jpg").Return(assert.AnError)

	_, err := f.svc.Update(context.Background(), existing.ID.Hex(), ProductPatch{
		ImagesToDelete: []string{"uploads/a.jpg"},
	}, owner.Hex())
	assert.Error(t, err)
	f.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_Update_PatchDistinguishesAbsentFromEmpty(t *testing.T) {
	f := newCatalogFixture()
	owner := primitive.NewObjectID()
	existing := ownedProduct(owner)
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)

	// A present-but-empty title must fail validation instead of silently
	// keeping the old value.
	empty := ""
	_, err := f.svc.Update(context.Background(), existing.ID.Hex(), ProductPatch{Title: &empty}, owner.Hex())
	assert.ErrorIs(t, err, ErrValidation)

	// An absent title keeps the stored value.
	price := 300.0
	f.productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Title == "Mountain bike" && p.Price == 300.0
	})).Return(nil)
	updated, err := f.svc.Update(context.Background(), existing.ID.Hex(), ProductPatch{Price: &price}, owner.Hex())
	assert.NoError(t, err)
	assert.Equal(t, "Mountain bike", updated.Title)
}

func TestCatalogService_Delete_ForbiddenForNonOwner(t *testing.T) {
	f := newCatalogFixture()
	existing := ownedProduct(primitive.NewObjectID())
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)

	err := f.svc.Delete(context.Background(), existing.ID.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	f.productRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_Delete_TolerantOfMissingFiles(t *testing.T) {
	f := newCatalogFixture()
	owner := primitive.NewObjectID()
	existing := ownedProduct(owner, "uploads/gone.jpg")
	f.productRepo.On("GetByID", mock.Anything, existing.ID.Hex()).Return(existing, nil)
	f.store.On("RemoveIfExists", mock.Anything, "uploads/gone.jpg").Return(assert.AnError)
	f.productRepo.On("Delete", mock.Anything, existing.ID.Hex()).Return(nil)

	err := f.svc.Delete(context.Background(), existing.ID.Hex(), owner.Hex())
	assert.NoError(t, err)
	f.productRepo.AssertExpectations(t)
}

func TestCatalogService_ListByCategory_AllBypassesFilter(t *testing.T) {
	f := newCatalogFixture()
	f.productRepo.On("List", mock.Anything, mock.MatchedBy(func(filter repository.ProductFilter) bool {
		return len(filter.CategoryIDs) == 0
	})).Return(&repository.ListProductsResult{}, nil)

	_, err := f.svc.ListByCategory(context.Background(), []string{"All"}, CatalogFilter{}, 1, 10)
	assert.NoError(t, err)
	f.categoryRepo.AssertNotCalled(t, "GetByNames", mock.Anything, mock.Anything)
}

func TestCatalogService_ListByCategory_UnknownName(t *testing.T) {
	f := newCatalogFixture()
	f.categoryRepo.On("GetByNames", mock.Anything, []string{"Ghost"}).
		Return([]entity.Category{}, nil)

	_, err := f.svc.ListByCategory(context.Background(), []string{"Ghost"}, CatalogFilter{}, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Search_EmptyQuery(t *testing.T) {
	f := newCatalogFixture()
	_, err := f.svc.Search(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_Grouped_CacheHit(t *testing.T) {
	cache := new(MockGroupedCache)
	cached := []repository.CategoryGroup{{CategoryName: "Bikes"}}
	cache.On("GetGrouped", mock.Anything).Return(cached, nil)

	productRepo := new(MockProductRepository)
	svc := NewCatalogService(productRepo, new(MockCategoryRepository), new(MockUserRepository), new(MockStorage), cache, nats.NoopPublisher{}, 8, logger.NewNop())

	groups, err := svc.Grouped(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, cached, groups)
	productRepo.AssertNotCalled(t, "GroupedByCategory", mock.Anything, mock.Anything)
}

func TestCatalogService_Grouped_CacheMissFillsCache(t *testing.T) {
	cache := new(MockGroupedCache)
	cache.On("GetGrouped", mock.Anything).Return(nil, assert.AnError)
	fresh := []repository.CategoryGroup{{CategoryName: "Bikes"}}
	cache.On("SetGrouped", mock.Anything, fresh).Return(nil)

	productRepo := new(MockProductRepository)
	productRepo.On("GroupedByCategory", mock.Anything, 8).Return(fresh, nil)

	svc := NewCatalogService(productRepo, new(MockCategoryRepository), new(MockUserRepository), new(MockStorage), cache, nats.NoopPublisher{}, 8, logger.NewNop())

	groups, err := svc.Grouped(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, fresh, groups)
	cache.AssertExpectations(t)
}
