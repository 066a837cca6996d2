package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/email"
	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/nats"
	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	subjectOrderCreated       = "order.created"
	subjectOrderStatusUpdated = "order.status.updated"
)

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput carries client-supplied totals as optional pointers so a
// value of zero is distinguishable from an omitted field. The stored totals
// are always recomputed from the line items.
type CreateOrderInput struct {
	CustomerName string
	Email        string
	PhoneNumber  string
	Items        []OrderItemInput
	Subtotal     *float64
	Tax          *float64
	Shipping     *float64
	Total        *float64
}

type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput, buyerID string) (*entity.Order, error)
	ListForUser(ctx context.Context, userID string) ([]repository.OrderWithRefs, error)
	Get(ctx context.Context, id string) (*repository.OrderWithRefs, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   nats.MessagePublisher
	sender      email.EmailSender
	log         logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher nats.MessagePublisher,
	sender email.EmailSender,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		sender:      sender,
		log:         log,
	}
}

func (s *orderService) Create(ctx context.Context, input CreateOrderInput, buyerID string) (*entity.Order, error) {
	if input.CustomerName == "" || input.Email == "" || input.PhoneNumber == "" {
		return nil, validationf("customer name, email, and phone number are required")
	}
	if len(input.Items) == 0 {
		return nil, validationf("order must contain at least one item")
	}
	if input.Subtotal == nil || input.Tax == nil || input.Shipping == nil || input.Total == nil {
		return nil, validationf("subtotal, tax, shipping, and total are required")
	}

	buyerObjID, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		return nil, validationf("invalid buyer id")
	}
	if _, err := s.userRepo.GetByID(ctx, buyerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return nil, validationf("buyer %s not found", buyerID)
		}
		return nil, err
	}

	// Each line item snapshots the current product. Quantities are taken
	// from the client, prices are not.
	items := make([]entity.OrderItem, 0, len(input.Items))
	var sellerID primitive.ObjectID
	for _, in := range input.Items {
		product, err := s.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
				return nil, validationf("product %s not found", in.ProductID)
			}
			return nil, err
		}

		var image string
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		item, err := entity.NewOrderItem(product.ID, product.Title, in.Quantity, product.Price, image)
		if err != nil {
			return nil, validationf("%s", err.Error())
		}
		items = append(items, *item)
		if sellerID.IsZero() {
			sellerID = product.Seller
		}
	}

	order := &entity.Order{
		CustomerName: input.CustomerName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		Items:        items,
		Status:       entity.StatusPending,
		BuyerID:      buyerObjID,
		SellerID:     sellerID,
		CreatedAt:    time.Now().UTC(),
	}
	order.DeriveTotals()

	if !order.TotalsMatch(*input.Subtotal, *input.Tax, *input.Shipping, *input.Total) {
		return nil, validationf("order totals do not match the line items")
	}

	id, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.log.Errorf("CreateOrder: %v", err)
		return nil, err
	}
	if objID, err := primitive.ObjectIDFromHex(id); err == nil {
		order.ID = objID
	}

	if err := s.publisher.Publish(ctx, subjectOrderCreated, order); err != nil {
		s.log.Warnf("CreateOrder: failed to publish event for %s: %v", id, err)
	}
	s.sendReceipt(ctx, order)

	return order, nil
}

// sendReceipt is best effort. A mail failure never fails the order.
func (s *orderService) sendReceipt(ctx context.Context, order *entity.Order) {
	if s.sender == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order.\n\n", order.CustomerName)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x%d  %.2f\n", item.Title, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nSubtotal: %.2f\nTax: %.2f\nShipping: %.2f\nTotal: %.2f\n", order.Subtotal, order.Tax, order.Shipping, order.Total)

	subject := fmt.Sprintf("Order confirmation %s", order.ID.Hex())
	if err := s.sender.Send(ctx, []string{order.Email}, subject, b.String()); err != nil {
		s.log.Warnf("CreateOrder: failed to send receipt for %s: %v", order.ID.Hex(), err)
	}
}

func (s *orderService) ListForUser(ctx context.Context, userID string) ([]repository.OrderWithRefs, error) {
	if userID == "" {
		return nil, unauthorizedf("authentication required")
	}
	return s.orderRepo.ListForUser(ctx, userID)
}

func (s *orderService) Get(ctx context.Context, id string) (*repository.OrderWithRefs, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return nil, validationf("invalid order id")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundf("order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, validationf("invalid order status %q", status)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return nil, validationf("invalid order id")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFoundf("order not found")
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, subjectOrderStatusUpdated, map[string]string{"id": id, "status": string(status)}); err != nil {
		s.log.Warnf("UpdateOrderStatus: failed to publish event for %s: %v", id, err)
	}
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			return validationf("invalid order id")
		case errors.Is(err, repository.ErrNotFound):
			return notFoundf("order not found")
		}
		return err
	}
	return nil
}
