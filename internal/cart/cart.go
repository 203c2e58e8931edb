// Package cart models a buyer's cart as a value type. Every mutator returns a
// new Cart with all derived amounts recomputed, so totals can never be
// observed stale.
package cart

import (
	"github.com/Nivethan26/farmers-gate-backend/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Product data is snapshotted at add time.
type Item struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	Qty         int             `json:"qty"`
	Image       *string         `json:"image,omitempty"`
	SellerID    uuid.UUID       `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
}

// Cart is an ordered collection of items plus derived totals. The zero value
// is not valid; use New.
type Cart struct {
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	Total          decimal.Decimal `json:"total"`
	TotalWeight    decimal.Decimal `json:"total_weight"`
	RedeemedPoints int             `json:"redeemed_points"`
}

// New returns an empty cart with zeroed totals.
func New() Cart {
	return recompute(nil, 0)
}

// Add appends the product, or bumps qty when the product is already present.
// Insertion order is preserved.
func (c Cart) Add(item Item) Cart {
	if item.Qty < 1 {
		item.Qty = 1
	}
	items := cloneItems(c.Items)
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Qty += item.Qty
			return recompute(items, c.RedeemedPoints)
		}
	}
	items = append(items, item)
	return recompute(items, c.RedeemedPoints)
}

// Remove drops the product's line entirely.
func (c Cart) Remove(productID uuid.UUID) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID == productID {
			continue
		}
		items = append(items, item)
	}
	return recompute(items, c.RedeemedPoints)
}

// UpdateQty sets the quantity for a line; qty < 1 removes the line.
func (c Cart) UpdateQty(productID uuid.UUID, qty int) Cart {
	if qty < 1 {
		return c.Remove(productID)
	}
	items := cloneItems(c.Items)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Qty = qty
		}
	}
	return recompute(items, c.RedeemedPoints)
}

// SetRedeemedPoints changes the points applied against the total.
func (c Cart) SetRedeemedPoints(points int) Cart {
	if points < 0 {
		points = 0
	}
	return recompute(cloneItems(c.Items), points)
}

// Clear empties the cart and resets redeemed points.
func (c Cart) Clear() Cart {
	return New()
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func recompute(items []Item, redeemedPoints int) Cart {
	if items == nil {
		items = []Item{}
	}
	lines := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, pricing.LineItem{PricePerKg: item.PricePerKg, Qty: item.Qty})
	}
	quote := pricing.Compute(lines, redeemedPoints)
	return Cart{
		Items:          items,
		Subtotal:       quote.Subtotal,
		DeliveryFee:    quote.DeliveryFee,
		Total:          quote.Total,
		TotalWeight:    quote.Weight,
		RedeemedPoints: quote.RedeemedPoints,
	}
}
