package entity

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Checkout derivation applied to the item subtotal.
const (
	TaxRate      = 0.10
	ShippingRate = 0.05
)

// OrderItem snapshots the product at order time. Later product edits do not
// change historical orders.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Title     string             `bson:"title" json:"title"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

func NewOrderItem(productID primitive.ObjectID, title string, quantity int, price float64, image string) (*OrderItem, error) {
	if productID.IsZero() {
		return nil, errors.New("item product id is required")
	}
	if title == "" {
		return nil, errors.New("item title is required")
	}
	if quantity < 1 {
		return nil, errors.New("item quantity must be at least 1")
	}
	if price < 0 {
		return nil, errors.New("item price cannot be negative")
	}
	return &OrderItem{ProductID: productID, Title: title, Quantity: quantity, Price: price, Image: image}, nil
}

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CustomerName string             `bson:"customer_name" json:"customerName"`
	Email        string             `bson:"email" json:"email"`
	PhoneNumber  string             `bson:"phone_number" json:"phoneNumber"`
	Items        []OrderItem        `bson:"items" json:"items"`
	Subtotal     float64            `bson:"subtotal" json:"subtotal"`
	Tax          float64            `bson:"tax" json:"tax"`
	Shipping     float64            `bson:"shipping" json:"shipping"`
	Total        float64            `bson:"total" json:"total"`
	Status       OrderStatus        `bson:"status" json:"status"`
	BuyerID      primitive.ObjectID `bson:"buyer_id" json:"buyerId"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"sellerId"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// DeriveTotals recomputes the monetary fields from the line items.
func (o *Order) DeriveTotals() {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	o.Subtotal = subtotal
	o.Tax = subtotal * TaxRate
	o.Shipping = subtotal * ShippingRate
	o.Total = subtotal + o.Tax + o.Shipping
}

// TotalsMatch reports whether client-supplied aggregates agree with the
// derivation from the line items.
func (o *Order) TotalsMatch(subtotal, tax, shipping, total float64) bool {
	const eps = 1e-9
	return math.Abs(o.Subtotal-subtotal) < eps &&
		math.Abs(o.Tax-tax) < eps &&
		math.Abs(o.Shipping-shipping) < eps &&
		math.Abs(o.Total-total) < eps
}
