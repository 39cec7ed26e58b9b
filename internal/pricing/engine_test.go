package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

func TestComputeGoldWithClampedExtra(t *testing.T) {
	// 2000.00 subtotal, gold asks for 20% extra: clamp to 10%, total 25% off.
	items := []pricing.Item{{Qty: 2, UnitPrice: 100_000}}
	got := pricing.Compute(items, loyalty.For(tier.Gold), 2000, 1_500)

	require.Equal(t, int64(200_000), got.Subtotal)
	require.Equal(t, int32(2500), got.DiscountBps)
	require.Equal(t, int64(50_000), got.Discount)
	require.Equal(t, int64(0), got.Shipping)
	require.Equal(t, int64(150_000), got.Total)
}

func TestApplyCounterOfferReplacesDiscount(t *testing.T) {
	// 3000.00 subtotal at an agreed 12%: 2640.00 due.
	got := pricing.Apply(300_000, loyalty.For(tier.Gold), 1200, 1_500)

	require.Equal(t, int32(1200), got.DiscountBps)
	require.Equal(t, int64(36_000), got.Discount)
	require.Equal(t, int64(264_000), got.Total)
}

func TestComputeBronzeFixedDiscountAndShipping(t *testing.T) {
	items := []pricing.Item{{Qty: 1, UnitPrice: 50_000}}
	got := pricing.Compute(items, loyalty.For(tier.Bronze), 0, 1_500)

	require.Equal(t, int32(500), got.DiscountBps)
	require.Equal(t, int64(2_500), got.Discount)
	require.Equal(t, int64(0), got.Shipping)
	require.Equal(t, int64(47_500), got.Total)
}

func TestComputeStandardNoDiscount(t *testing.T) {
	items := []pricing.Item{
		{Qty: 3, UnitPrice: 10_000},
		{Qty: 0, UnitPrice: 99_999},
	}
	got := pricing.Compute(items, loyalty.For(tier.Standard), 0, 1_500)

	require.Equal(t, int64(30_000), got.Subtotal)
	require.Equal(t, int32(0), got.DiscountBps)
	require.Equal(t, int64(0), got.Discount)
	require.Equal(t, int64(31_500), got.Total)
}

func TestApplyClampsRunawayPercent(t *testing.T) {
	got := pricing.Apply(100_000, loyalty.For(tier.Silver), 9_000, 0)
	require.Equal(t, int32(1000), got.DiscountBps)
	require.Equal(t, int64(10_000), got.Discount)
}

func TestApplyDiscountTruncatesTowardZero(t *testing.T) {
	// 333 minor units at 5% is 16.65, stored amount truncates to 16.
	got := pricing.Apply(333, loyalty.For(tier.Bronze), 500, 0)
	require.Equal(t, int64(16), got.Discount)
	require.Equal(t, int64(317), got.Total)
}
