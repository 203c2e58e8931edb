// Package pricing holds the pure money math shared by cart quotes and order
// creation. All amounts are in rupees; weights are in kilograms.
package pricing

import "github.com/shopspring/decimal"

// LineItem is the minimal shape priced by this package.
type LineItem struct {
	PricePerKg decimal.Decimal
	Qty        int
}

var (
	feeFirstKilo = decimal.NewFromInt(180)
	feeTwoKilos  = decimal.NewFromInt(300)
	feePerExtra  = decimal.NewFromInt(120)

	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
)

// Weight returns the total cart weight in kilograms (one unit = 1 kg).
func Weight(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromInt(int64(item.Qty)))
	}
	return total
}

// Subtotal sums price*qty across the line items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.PricePerKg.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total
}

// DeliveryFee is a step function: flat 180 for the first kilogram, flat 300
// through two kilograms, then 120 per kilogram beyond that. The jump at
// exactly one kilogram (180 -> 300) is intentional, not a smooth rate.
func DeliveryFee(weight decimal.Decimal) decimal.Decimal {
	switch {
	case weight.Sign() <= 0:
		return decimal.Zero
	case weight.LessThanOrEqual(one):
		return feeFirstKilo
	case weight.LessThanOrEqual(two):
		return feeTwoKilos
	default:
		return feeTwoKilos.Add(weight.Sub(two).Mul(feePerExtra))
	}
}

// PointsDiscount converts redeemed loyalty points into a discount: one point
// equals one rupee, capped at the pre-discount total.
func PointsDiscount(redeemedPoints int, subtotal, deliveryFee decimal.Decimal) decimal.Decimal {
	if redeemedPoints <= 0 {
		return decimal.Zero
	}
	points := decimal.NewFromInt(int64(redeemedPoints))
	cap := subtotal.Add(deliveryFee)
	if points.GreaterThan(cap) {
		return cap
	}
	return points
}

// Total applies the discount, never going below zero.
func Total(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(deliveryFee).Sub(discount)
	if total.Sign() < 0 {
		return decimal.Zero
	}
	return total
}

// Quote carries every derived amount for a set of line items. The fields are
// only ever produced together by Compute, so they cannot drift apart.
type Quote struct {
	Weight         decimal.Decimal
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	RedeemedPoints int
	Discount       decimal.Decimal
	Total          decimal.Decimal
}

// Compute derives all amounts for the items and redeemed points in one step.
func Compute(items []LineItem, redeemedPoints int) Quote {
	if redeemedPoints < 0 {
		redeemedPoints = 0
	}
	weight := Weight(items)
	subtotal := Subtotal(items)
	fee := DeliveryFee(weight)
	discount := PointsDiscount(redeemedPoints, subtotal, fee)
	return Quote{
		Weight:         weight,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		RedeemedPoints: redeemedPoints,
		Discount:       discount,
		Total:          Total(subtotal, fee, discount),
	}
}
