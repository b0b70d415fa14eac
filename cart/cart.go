// Package cart holds the product selections of the in-progress sale.
//
// A cart belongs to exactly one terminal and is mutated only by discrete
// operator actions; it is not safe for concurrent use and does not need to
// be.
package cart

import "licorera-pos/model"

// Line is one (product, quantity) pair. Qty is always >= 1; a line whose
// quantity reaches zero is removed, never retained.
type Line struct {
	Product model.Product
	Qty     int
}

// Subtotal is the line's price * quantity, with a missing price counting
// as zero.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Qty)
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges qty into an existing line for the same product id, or appends a
// new line. There is never more than one line per product. qty below 1 adds
// a single unit, matching the "add to cart" button.
func (c *Cart) Add(p model.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Qty += qty
			return
		}
	}
	c.lines = append(c.lines, Line{Product: p, Qty: qty})
}

// Increment adds one unit to the line at i. Out-of-range indexes are no-ops.
func (c *Cart) Increment(i int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	c.lines[i].Qty++
}

// Decrement removes one unit from the line at i, deleting the line when its
// quantity reaches zero.
func (c *Cart) Decrement(i int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	c.lines[i].Qty--
	if c.lines[i].Qty <= 0 {
		c.removeAt(i)
	}
}

// Remove deletes the line at i regardless of quantity.
func (c *Cart) Remove(i int) {
	if i < 0 || i >= len(c.lines) {
		return
	}
	c.removeAt(i)
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Subtotal sums price * qty over all lines, using the prices cached on the
// lines at add time.
func (c *Cart) Subtotal() int64 {
	var s int64
	for _, l := range c.lines {
		s += l.Subtotal()
	}
	return s
}

// Units is the total quantity across all lines.
func (c *Cart) Units() int {
	var n int
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Items builds the sale request line items from the current cart.
func (c *Cart) Items() []model.SaleItem {
	items := make([]model.SaleItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, model.SaleItem{ProductID: l.Product.ID, Qty: l.Qty})
	}
	return items
}
