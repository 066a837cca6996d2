// Package cart implements a buyer's shopping cart. Every mutation writes a
// full snapshot through the injected Store, so the cart survives restarts the
// same way a browser cart survives page reloads.
package cart

import (
	"fmt"
	"sync"

	"github.com/HamzaAshfaq01/sellsgoods/pkg/client"
)

// Checkout derivation applied to the item subtotal.
const (
	TaxRate      = 0.10
	ShippingRate = 0.05
)

// Entry is one cart line.
type Entry struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	mu      sync.Mutex
	store   Store
	entries []Entry
}

// New loads any previously persisted snapshot from store.
func New(store Store) (*Cart, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Cart{store: store, entries: entries}, nil
}

func (c *Cart) persistLocked() error {
	snapshot := make([]Entry, len(c.entries))
	copy(snapshot, c.entries)
	if err := c.store.Save(snapshot); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// Add puts a product in the cart. Adding a product already present merges
// into the existing line by increasing its quantity.
func (c *Cart) Add(p client.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ProductID == p.ID {
			c.entries[i].Quantity += quantity
			return c.persistLocked()
		}
	}

	var image string
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	c.entries = append(c.entries, Entry{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Image:     image,
		Quantity:  quantity,
	})
	return c.persistLocked()
}

// SetQuantity sets a line's quantity, clamped to a minimum of 1. Unknown
// product ids are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries[i].Quantity = quantity
			return c.persistLocked()
		}
	}
	return nil
}

func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ProductID == productID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return c.persistLocked()
		}
	}
	return nil
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	return c.persistLocked()
}

// Entries returns a copy of the cart lines.
func (c *Cart) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Total is the item subtotal, before tax and shipping.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *Cart) subtotalLocked() float64 {
	var total float64
	for _, e := range c.entries {
		total += e.Price * float64(e.Quantity)
	}
	return total
}

// Checkout assembles the order payload with the derived totals: 10% tax, 5%
// shipping, total = 115% of the subtotal.
func (c *Cart) Checkout(customerName, email, phone string) (client.CreateOrderRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return client.CreateOrderRequest{}, fmt.Errorf("cart is empty")
	}

	items := make([]client.OrderItemInput, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, client.OrderItemInput{ProductID: e.ProductID, Quantity: e.Quantity})
	}

	subtotal := c.subtotalLocked()
	tax := subtotal * TaxRate
	shipping := subtotal * ShippingRate
	total := subtotal + tax + shipping

	return client.CreateOrderRequest{
		CustomerName: customerName,
		Email:        email,
		PhoneNumber:  phone,
		Items:        items,
		Subtotal:     &subtotal,
		Tax:          &tax,
		Shipping:     &shipping,
		Total:        &total,
	}, nil
}
