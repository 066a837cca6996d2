package repository

import (
	"context"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRef and SellerRef carry the fields embedded into catalog reads,
// the way the reference API populates category name and seller name/email.
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

type SellerRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

type ProductWithRefs struct {
	entity.Product `bson:",inline"`
	CategoryRef    *CategoryRef `bson:"category_ref,omitempty" json:"categoryRef,omitempty"`
	SellerRef      *SellerRef   `bson:"seller_ref,omitempty" json:"sellerRef,omitempty"`
}

// ProductFilter narrows catalog listings. Zero values mean "not filtered".
// Date selects the full UTC day containing it.
type ProductFilter struct {
	CategoryIDs []primitive.ObjectID
	SellerID    primitive.ObjectID
	Search      string
	Date        time.Time
	Conditions  []entity.Condition
	Page        int
	Limit       int
}

type ListProductsResult struct {
	Products   []ProductWithRefs
	TotalCount int64
	TotalPages int
}

// CategoryGroup is one landing-page bucket: the newest products of a category.
type CategoryGroup struct {
	CategoryName string            `bson:"category_name" json:"categoryName"`
	Products     []ProductWithRefs `bson:"products" json:"products"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) (string, error)
	GetByID(ctx context.Context, id string) (*ProductWithRefs, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) (*ListProductsResult, error)
	// Search matches query case-insensitively against title, contact name and
	// description. Unpaginated.
	Search(ctx context.Context, query string) ([]ProductWithRefs, error)
	// GroupedByCategory buckets the newest perCategory products of every
	// category present in the catalog, pushed down as a single aggregation.
	GroupedByCategory(ctx context.Context, perCategory int) ([]CategoryGroup, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}
