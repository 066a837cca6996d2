package repository

import (
	"context"

	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuyerRef is the buyer projection populated into order listings.
type BuyerRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

type OrderWithRefs struct {
	entity.Order `bson:",inline"`
	BuyerRef     *BuyerRef `bson:"buyer_ref,omitempty" json:"buyerRef,omitempty"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, id string) (*OrderWithRefs, error)
	// ListForUser returns orders where the user is buyer or seller,
	// newest first.
	ListForUser(ctx context.Context, userID string) ([]OrderWithRefs, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
