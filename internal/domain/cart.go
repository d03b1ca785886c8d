package domain

import (
	"fmt"

	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
)

// CartLine pairs a Product with a purchase amount. While a line exists its
// amount is always >= 1; a line driven to zero is removed, never kept.
type CartLine struct {
	Product Product
	Amount  int
}

// Cart maps product identity to a CartLine, at most one line per product id.
// Lines keep insertion order, which is the stable on-screen order.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds amount units of product to the cart. Adding a product that is
// already present merges into the existing line by accumulating its amount;
// a second line is never created for the same id.
func (c *Cart) AddItem(product Product, amount int) error {
	if !product.Valid() {
		return apperrors.InvalidCartOperation("product has not passed validation")
	}
	if amount <= 0 {
		return apperrors.InvalidCartOperation(fmt.Sprintf("amount must be a positive integer, got %d", amount))
	}

	if i := c.findIndex(product.ID()); i >= 0 {
		c.lines[i].Amount += amount
		return nil
	}

	c.lines = append(c.lines, CartLine{Product: product, Amount: amount})
	return nil
}

// UpdateItem replaces the amount of an existing line. An amount of zero
// removes the line entirely; negative amounts are rejected.
func (c *Cart) UpdateItem(productID string, newAmount int) error {
	i := c.findIndex(productID)
	if i < 0 {
		return apperrors.ItemNotFound(productID)
	}
	if newAmount < 0 {
		return apperrors.InvalidCartOperation(fmt.Sprintf("amount must not be negative, got %d", newAmount))
	}

	if newAmount == 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}

	c.lines[i].Amount = newAmount
	return nil
}

// RemoveItem deletes the line for productID. Removing an absent id fails.
func (c *Cart) RemoveItem(productID string) error {
	i := c.findIndex(productID)
	if i < 0 {
		return apperrors.ItemNotFound(productID)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// Total returns the sum of price*amount over all lines. Pure; an empty cart
// totals zero.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Product.Price() * float64(line.Amount)
	}
	return total
}

// ItemCount returns the sum of amounts across all lines (the badge count).
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.lines {
		count += line.Amount
	}
	return count
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a snapshot of the cart lines in insertion order. The copy is
// safe to iterate any number of times and is not affected by later mutations.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID, if present.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if i := c.findIndex(productID); i >= 0 {
		return c.lines[i], true
	}
	return CartLine{}, false
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.lines = nil
}

// findIndex returns the index of the line for productID, or -1. O(n) search,
// but it centralizes the lookup for later optimization.
func (c *Cart) findIndex(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID() == productID {
			return i
		}
	}
	return -1
}
