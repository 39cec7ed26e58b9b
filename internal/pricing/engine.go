package pricing

import "github.com/hanbutik/backend-butik/internal/loyalty"

// Money represents a monetary value stored in minor units.
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int32
	UnitPrice Money
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal    Money
	DiscountBps int32
	Discount    Money
	Shipping    Money
	Total       Money
}

// Compute calculates order totals for the given line items and tier
// benefits. extraBps is the additional negotiated discount on top of the
// tier base; it is clamped to the tier cap, so the applied discount never
// exceeds base + cap. standardShipping applies only when the tier does not
// include free shipping.
func Compute(items []Item, b loyalty.Benefits, extraBps int32, standardShipping Money) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 || it.UnitPrice < 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	discountBps := b.BaseDiscountBps + b.ClampExtra(extraBps)
	return Apply(subtotal, b, discountBps, standardShipping)
}

// Apply derives the summary for an already-known subtotal and total
// discount percentage. Settlement and counter-offer acceptance use it so
// every computation site shares one clamp and one rounding rule.
func Apply(subtotal Money, b loyalty.Benefits, discountBps int32, standardShipping Money) Summary {
	discountBps = b.ClampTotal(discountBps)
	discount := subtotal * Money(discountBps) / 10_000
	if discount > subtotal {
		discount = subtotal
	}
	shipping := standardShipping
	if b.FreeShipping {
		shipping = 0
	}
	if shipping < 0 {
		shipping = 0
	}
	return Summary{
		Subtotal:    subtotal,
		DiscountBps: discountBps,
		Discount:    discount,
		Shipping:    shipping,
		Total:       subtotal + shipping - discount,
	}
}
