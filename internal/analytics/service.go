package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

// Querier defines the database access required for analytics operations.
type Querier interface {
	GetOrderStats(ctx context.Context) (dbgen.GetOrderStatsRow, error)
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
}

// Overview aggregates storefront metrics for the admin dashboard.
type Overview struct {
	TotalOrders         int64 `json:"totalOrders"`
	SettledOrders       int64 `json:"settledOrders"`
	PendingNegotiations int64 `json:"pendingNegotiations"`
	RejectedOrders      int64 `json:"rejectedOrders"`
	Revenue             int64 `json:"revenue"`
	DiscountGiven       int64 `json:"discountGiven"`
	Customers           int64 `json:"customers"`
	Products            int64 `json:"products"`
}

// Service provides cached access to order and customer aggregates.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
}

const overviewKey = "an:overview"

// Stats returns the dashboard overview, served from cache when fresh.
func (s *Service) Stats(ctx context.Context) (Overview, error) {
	if s == nil || s.Q == nil {
		return Overview{}, fmt.Errorf("analytics service not configured")
	}
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	stats, err := s.Q.GetOrderStats(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("analytics: order stats: %w", err)
	}
	customers, err := s.Q.CountUsers(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("analytics: count users: %w", err)
	}
	products, err := s.Q.CountProducts(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("analytics: count products: %w", err)
	}
	overview := Overview{
		TotalOrders:         stats.TotalOrders,
		SettledOrders:       stats.SettledOrders,
		PendingNegotiations: stats.PendingNegotiations,
		RejectedOrders:      stats.RejectedOrders,
		Revenue:             stats.Revenue,
		DiscountGiven:       stats.DiscountGiven,
		Customers:           customers,
		Products:            products,
	}
	s.store(ctx, overview)
	return overview, nil
}

func (s *Service) fromCache(ctx context.Context) (Overview, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Overview{}, false
	}
	data, err := s.R.Get(ctx, overviewKey).Bytes()
	if err != nil {
		return Overview{}, false
	}
	var overview Overview
	if err := json.Unmarshal(data, &overview); err != nil {
		return Overview{}, false
	}
	return overview, true
}

func (s *Service) store(ctx context.Context, overview Overview) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(overview)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, overviewKey, data, s.TTL).Err()
}
