// Package service holds the storefront's use cases on top of the domain
// types, keeping the in-memory cart and its persisted record in step.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/daduke1/practica-ecommerce/internal/cartstore"
	"github.com/daduke1/practica-ecommerce/internal/domain"
)

// ShippingCost is the flat shipping fee applied to every checkout total.
const ShippingCost = 30.00

// CartController owns the live cart. All mutations run under one lock and
// persist synchronously before returning, so the stored record never lags
// behind by more than the operation in flight.
type CartController struct {
	mu     sync.Mutex
	cart   *domain.Cart
	store  *cartstore.Store
	logger *slog.Logger
}

// NewCartController restores the persisted cart and wraps it in a controller.
// A corrupt record comes back as an empty cart; only a medium-level storage
// failure makes construction fail.
func NewCartController(ctx context.Context, store *cartstore.Store, logger *slog.Logger) (*CartController, error) {
	cart, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "cart restored", slog.Int("lines", cart.Len()))
	return &CartController{cart: cart, store: store, logger: logger}, nil
}

// AddItem adds amount units of product, merging with an existing line for the
// same product. The persisted record is updated before returning; on a
// persistence failure the in-memory mutation is kept and the error surfaces.
func (c *CartController) AddItem(ctx context.Context, product domain.Product, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cart.AddItem(product, amount); err != nil {
		return err
	}
	return c.persist(ctx)
}

// UpdateItem sets the line for productID to amount. Amount zero removes the
// line; the product must already be in the cart.
func (c *CartController) UpdateItem(ctx context.Context, productID string, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cart.UpdateItem(productID, amount); err != nil {
		return err
	}
	return c.persist(ctx)
}

// RemoveItem deletes the line for productID.
func (c *CartController) RemoveItem(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cart.RemoveItem(productID); err != nil {
		return err
	}
	return c.persist(ctx)
}

// Clear empties the cart and removes the persisted record.
func (c *CartController) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cart.Clear()
	if err := c.store.Clear(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear persisted cart", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ItemCount returns the total number of units across all lines.
func (c *CartController) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.ItemCount()
}

// Snapshot returns a consistent read-only view of the cart with the checkout
// totals already computed.
func (c *CartController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := c.cart.Lines()
	view := Snapshot{
		Lines:     make([]LineView, 0, len(lines)),
		Shipping:  ShippingCost,
		ItemCount: c.cart.ItemCount(),
	}
	for _, line := range lines {
		view.Lines = append(view.Lines, LineView{
			ProductID:   line.Product.ID(),
			Name:        line.Product.Name(),
			Price:       line.Product.Price(),
			Description: line.Product.Description(),
			ImageURL:    line.Product.ImageURL(),
			Amount:      line.Amount,
			LineTotal:   line.Product.Price() * float64(line.Amount),
		})
	}
	view.Subtotal = c.cart.Total()
	view.Total = view.Subtotal + ShippingCost
	return view
}

func (c *CartController) persist(ctx context.Context) error {
	if err := c.store.Save(ctx, c.cart); err != nil {
		c.logger.ErrorContext(ctx, "failed to persist cart", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// LineView is one cart line flattened for presentation.
type LineView struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Amount      int     `json:"amount"`
	LineTotal   float64 `json:"lineTotal"`
}

// Snapshot is the cart as the storefront page renders it.
type Snapshot struct {
	Lines     []LineView `json:"lines"`
	Subtotal  float64    `json:"subtotal"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
