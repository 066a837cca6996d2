package service

import (
	"context"
	"errors"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/nats"
	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	subjectProductCreated = "product.created"
	subjectProductDeleted = "product.deleted"

	// CategoryAll bypasses category filtering in ListByCategory.
	CategoryAll = "All"

	MaxImagesPerProduct = 12
)

// GroupedCache fronts the landing-page aggregation. Product writes
// invalidate it.
type GroupedCache interface {
	GetGrouped(ctx context.Context) ([]repository.CategoryGroup, error)
	SetGrouped(ctx context.Context, groups []repository.CategoryGroup) error
	Invalidate(ctx context.Context) error
}

type CreateProductInput struct {
	Title       string
	Description string
	Condition   entity.Condition
	Category    string // id or name
	Tags        []string
	Price       float64
	Negotiable  bool
	Location    entity.Location
	Contact     entity.Contact
	ImagePaths  []string // already persisted by the upload collaborator
	SellerID    string
}

// ProductPatch distinguishes "field absent" (nil) from "field present but
// empty", so an update can legitimately clear a value.
type ProductPatch struct {
	Title          *string
	Description    *string
	Condition      *entity.Condition
	Category       *string // id or name
	Tags           *[]string
	Price          *float64
	Negotiable     *bool
	Location       *entity.Location
	Contact        *entity.Contact
	AddImagePaths  []string
	ImagesToDelete []string
}

type CatalogFilter struct {
	Search     string
	Date       time.Time
	Conditions []entity.Condition
}

type CatalogService interface {
	Create(ctx context.Context, input CreateProductInput) (*entity.Product, error)
	ListAll(ctx context.Context, page, limit int) (*repository.ListProductsResult, error)
	ListSeller(ctx context.Context, sellerID string, page, limit int) (*repository.ListProductsResult, error)
	Get(ctx context.Context, id string) (*repository.ProductWithRefs, error)
	Update(ctx context.Context, id string, patch ProductPatch, requesterID string) (*entity.Product, error)
	Delete(ctx context.Context, id, requesterID string) error
	ListByCategory(ctx context.Context, categoryNames []string, filter CatalogFilter, page, limit int) (*repository.ListProductsResult, error)
	Search(ctx context.Context, query string) ([]repository.ProductWithRefs, error)
	Grouped(ctx context.Context) ([]repository.CategoryGroup, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	store        storage.Storage
	cache        GroupedCache
	publisher    nats.MessagePublisher
	perCategory  int
	log          logger.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	store storage.Storage,
	cache GroupedCache,
	publisher nats.MessagePublisher,
	perCategory int,
	log logger.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		store:        store,
		cache:        cache,
		publisher:    publisher,
		perCategory:  perCategory,
		log:          log,
	}
}

// resolveCategory accepts a category id or a category name.
func (s *catalogService) resolveCategory(ctx context.Context, idOrName string) (*entity.Category, error) {
	if objID, err := primitive.ObjectIDFromHex(idOrName); err == nil {
		category, err := s.categoryRepo.GetByID(ctx, objID.Hex())
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	category, err := s.categoryRepo.GetByName(ctx, idOrName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationf("invalid category")
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.Title == "" || input.Description == "" || input.Category == "" ||
		input.Location.Area == "" || input.Location.City == "" ||
		input.Contact.Name == "" || input.Contact.Email == "" || input.Contact.Phone == "" {
		return nil, validationf("all required fields must be provided")
	}
	if input.Price < 0 {
		return nil, validationf("price cannot be negative")
	}

	category, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	seller, err := s.userRepo.GetByID(ctx, input.SellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, validationf("invalid seller")
		}
		return nil, err
	}

	condition := input.Condition
	if condition == "" {
		condition = entity.ConditionUsed
	}
	if !condition.Valid() {
		return nil, validationf("condition must be new or used")
	}

	product := &entity.Product{
		Title:       input.Title,
		Description: input.Description,
		Condition:   condition,
		Category:    category.ID,
		Tags:        input.Tags,
		Price:       input.Price,
		Negotiable:  input.Negotiable,
		Location:    input.Location,
		Contact:     input.Contact,
		Images:      input.ImagePaths,
		Seller:      seller.ID,
	}

	if _, err := s.productRepo.Create(ctx, product); err != nil {
		s.log.Errorf("CreateProduct: %v", err)
		return nil, err
	}

	s.invalidateGrouped(ctx)
	if err := s.publisher.Publish(ctx, subjectProductCreated, product); err != nil {
		s.log.Warnf("CreateProduct: failed to publish event for %s: %v", product.ID.Hex(), err)
	}
	return product, nil
}

func (s *catalogService) ListAll(ctx context.Context, page, limit int) (*repository.ListProductsResult, error) {
	return s.productRepo.List(ctx, repository.ProductFilter{Page: page, Limit: limit})
}

func (s *catalogService) ListSeller(ctx context.Context, sellerID string, page, limit int) (*repository.ListProductsResult, error) {
	objID, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, validationf("invalid seller id")
	}
	return s.productRepo.List(ctx, repository.ProductFilter{SellerID: objID, Page: page, Limit: limit})
}

func (s *catalogService) Get(ctx context.Context, id string) (*repository.ProductWithRefs, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return nil, validationf("invalid product id")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundf("product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Update(ctx context.Context, id string, patch ProductPatch, requesterID string) (*entity.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product := existing.Product

	if product.Seller.Hex() != requesterID {
		return nil, forbiddenf("you can only edit your own products")
	}

	// Image removal is strict here: a missing stored file aborts the update
	// before anything is persisted.
	for _, path := range patch.ImagesToDelete {
		if err := s.store.Remove(ctx, path); err != nil {
			s.log.Errorf("UpdateProduct %s: failed to remove image %s: %v", id, path, err)
			return nil, err
		}
		product.RemoveImage(path)
	}
	product.Images = append(product.Images, patch.AddImagePaths...)
	if len(product.Images) > MaxImagesPerProduct {
		return nil, validationf("a product can have at most %d images", MaxImagesPerProduct)
	}

	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Condition != nil {
		product.Condition = *patch.Condition
	}
	if patch.Category != nil {
		category, err := s.resolveCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		product.Category = category.ID
	}
	if patch.Tags != nil {
		product.Tags = *patch.Tags
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Negotiable != nil {
		product.Negotiable = *patch.Negotiable
	}
	if patch.Location != nil {
		product.Location = *patch.Location
	}
	if patch.Contact != nil {
		product.Contact = *patch.Contact
	}

	if err := product.Validate(); err != nil {
		return nil, validationf("%s", err.Error())
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		return nil, err
	}
	s.invalidateGrouped(ctx)
	return &product, nil
}

func (s *catalogService) Delete(ctx context.Context, id, requesterID string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if existing.Seller.Hex() != requesterID {
		return forbiddenf("you can only delete your own products")
	}

	// Tolerant of already-missing files on delete.
	for _, path := range existing.Images {
		if err := s.store.RemoveIfExists(ctx, path); err != nil {
			s.log.Warnf("DeleteProduct %s: failed to remove image %s: %v", id, path, err)
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateGrouped(ctx)
	if err := s.publisher.Publish(ctx, subjectProductDeleted, map[string]string{"id": id}); err != nil {
		s.log.Warnf("DeleteProduct: failed to publish event for %s: %v", id, err)
	}
	return nil
}

func (s *catalogService) ListByCategory(ctx context.Context, categoryNames []string, filter CatalogFilter, page, limit int) (*repository.ListProductsResult, error) {
	repoFilter := repository.ProductFilter{
		Search:     filter.Search,
		Date:       filter.Date,
		Conditions: filter.Conditions,
		Page:       page,
		Limit:      limit,
	}

	specific := make([]string, 0, len(categoryNames))
	for _, name := range categoryNames {
		if name != "" && name != CategoryAll {
			specific = append(specific, name)
		}
	}

	if len(specific) > 0 {
		categories, err := s.categoryRepo.GetByNames(ctx, specific)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			return nil, notFoundf("category not found")
		}
		for _, c := range categories {
			repoFilter.CategoryIDs = append(repoFilter.CategoryIDs, c.ID)
		}
	}

	return s.productRepo.List(ctx, repoFilter)
}

func (s *catalogService) Search(ctx context.Context, query string) ([]repository.ProductWithRefs, error) {
	if query == "" {
		return nil, validationf("search query is required")
	}
	return s.productRepo.Search(ctx, query)
}

func (s *catalogService) Grouped(ctx context.Context) ([]repository.CategoryGroup, error) {
	if s.cache != nil {
		groups, err := s.cache.GetGrouped(ctx)
		if err == nil {
			return groups, nil
		}
	}

	groups, err := s.productRepo.GroupedByCategory(ctx, s.perCategory)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetGrouped(ctx, groups); err != nil {
			s.log.Warnf("Grouped: failed to cache: %v", err)
		}
	}
	return groups, nil
}

func (s *catalogService) invalidateGrouped(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnf("failed to invalidate grouped catalog cache: %v", err)
	}
}
