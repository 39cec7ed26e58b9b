package loyalty

import (
	"errors"

	"github.com/hanbutik/backend-butik/internal/tier"
)

// ErrPolicyViolation is returned when a customer requests a negotiated
// discount their tier does not grant.
var ErrPolicyViolation = errors.New("loyalty: negotiation not permitted for tier")

// Benefits captures the discount and shipping entitlements of a tier.
// Percentages are expressed in basis points.
type Benefits struct {
	Tier            tier.Tier
	BaseDiscountBps int32
	ExtraCapBps     int32
	FreeShipping    bool
	CanNegotiate    bool
}

// For returns the benefits of the given tier.
func For(t tier.Tier) Benefits {
	switch t {
	case tier.Bronze:
		return Benefits{Tier: t, BaseDiscountBps: 500, FreeShipping: true}
	case tier.Silver:
		return Benefits{Tier: t, BaseDiscountBps: 1000, FreeShipping: true}
	case tier.Gold:
		return Benefits{Tier: t, BaseDiscountBps: 1500, ExtraCapBps: 1000, FreeShipping: true, CanNegotiate: true}
	default:
		return Benefits{Tier: tier.Standard}
	}
}

// MaxTotalBps is the hard ceiling on the total discount for the tier.
func (b Benefits) MaxTotalBps() int32 {
	return b.BaseDiscountBps + b.ExtraCapBps
}

// ClampExtra bounds a customer-proposed additional discount to the tier cap.
// Out-of-range values are clamped, never rejected; the same clamp applies at
// request creation, counter-offer and settlement so all sites agree.
func (b Benefits) ClampExtra(bps int32) int32 {
	if bps < 0 {
		return 0
	}
	if bps > b.ExtraCapBps {
		return b.ExtraCapBps
	}
	return bps
}

// ClampTotal bounds an admin-supplied total discount percentage to the tier
// ceiling.
func (b Benefits) ClampTotal(bps int32) int32 {
	if bps < 0 {
		return 0
	}
	if max := b.MaxTotalBps(); bps > max {
		return max
	}
	return bps
}

// RequestExtra validates and clamps a customer-proposed extra discount.
// Non-negotiating tiers receive ErrPolicyViolation; a zero proposal is
// always allowed since it requests nothing.
func (b Benefits) RequestExtra(bps int32) (int32, error) {
	if bps <= 0 {
		return 0, nil
	}
	if !b.CanNegotiate {
		return 0, ErrPolicyViolation
	}
	return b.ClampExtra(bps), nil
}
