package client

import "time"

type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Location struct {
	Area string `json:"area"`
	City string `json:"city"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type SellerRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Condition   string       `json:"condition"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags"`
	Price       float64      `json:"price"`
	Negotiable  bool         `json:"negotiable"`
	Location    Location     `json:"location"`
	Contact     Contact      `json:"contact"`
	Images      []string     `json:"images"`
	Seller      string       `json:"seller"`
	CreatedAt   time.Time    `json:"createdAt"`
	CategoryRef *CategoryRef `json:"categoryRef,omitempty"`
	SellerRef   *SellerRef   `json:"sellerRef,omitempty"`
}

// ProductPage mirrors the paginated listing response.
type ProductPage struct {
	Products   []Product `json:"Products"`
	TotalCount int64     `json:"TotalCount"`
	TotalPages int       `json:"TotalPages"`
}

type CategoryGroup struct {
	CategoryName string    `json:"categoryName"`
	Products     []Product `json:"products"`
}

type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

type Order struct {
	ID           string      `json:"_id"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phoneNumber"`
	Items        []OrderItem `json:"items"`
	Subtotal     float64     `json:"subtotal"`
	Tax          float64     `json:"tax"`
	Shipping     float64     `json:"shipping"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// CreateOrderRequest is the checkout payload. Totals are pointers because the
// server rejects a payload where any of them is missing.
type CreateOrderRequest struct {
	CustomerName string           `json:"customerName"`
	Email        string           `json:"email"`
	PhoneNumber  string           `json:"phoneNumber"`
	BuyerID      string           `json:"buyerId,omitempty"`
	Items        []OrderItemInput `json:"items"`
	Subtotal     *float64         `json:"subtotal"`
	Tax          *float64         `json:"tax"`
	Shipping     *float64         `json:"shipping"`
	Total        *float64         `json:"total"`
}

type OrderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
