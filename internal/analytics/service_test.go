package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/analytics"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

type stubQueries struct {
	statsCalls int
}

func (s *stubQueries) GetOrderStats(context.Context) (dbgen.GetOrderStatsRow, error) {
	s.statsCalls++
	return dbgen.GetOrderStatsRow{
		TotalOrders:         12,
		SettledOrders:       8,
		PendingNegotiations: 2,
		RejectedOrders:      2,
		Revenue:             940_000,
		DiscountGiven:       60_000,
	}, nil
}

func (s *stubQueries) CountUsers(context.Context) (int64, error) {
	return 5, nil
}

func (s *stubQueries) CountProducts(context.Context) (int64, error) {
	return 9, nil
}

func TestStatsAggregates(t *testing.T) {
	svc := &analytics.Service{Q: &stubQueries{}}

	overview, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), overview.TotalOrders)
	require.Equal(t, int64(2), overview.PendingNegotiations)
	require.Equal(t, int64(940_000), overview.Revenue)
	require.Equal(t, int64(5), overview.Customers)
	require.Equal(t, int64(9), overview.Products)
}

func TestStatsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	queries := &stubQueries{}
	svc := &analytics.Service{Q: queries, R: rdb, TTL: time.Minute}

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, queries.statsCalls)
}
