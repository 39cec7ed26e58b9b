package pricing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

type stubCatalog struct {
	products map[uuid.UUID]dbgen.Product
}

func (s *stubCatalog) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	p, ok := s.products[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func TestQuoteRepricesFromCatalog(t *testing.T) {
	productID := uuid.New()
	catalog := &stubCatalog{products: map[uuid.UUID]dbgen.Product{
		productID: {ID: pgUUID(productID), Title: "Silk scarf", Price: 45_000},
	}}
	svc := pricing.Service{Q: catalog, StandardShipping: 1_500}

	// Stale snapshot price on the cart line must be ignored.
	items := []dbgen.CartItem{{ProductID: pgUUID(productID), Qty: 2, UnitPrice: 10}}
	summary, lines, err := svc.Quote(context.Background(), items, loyalty.For(tier.Silver), 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, int64(45_000), lines[0].UnitPrice)
	require.Equal(t, int64(90_000), summary.Subtotal)
	require.Equal(t, int64(9_000), summary.Discount)
}

func TestQuoteMissingProductAborts(t *testing.T) {
	svc := pricing.Service{Q: &stubCatalog{products: map[uuid.UUID]dbgen.Product{}}}
	items := []dbgen.CartItem{{ProductID: pgUUID(uuid.New()), Qty: 1}}
	_, _, err := svc.Quote(context.Background(), items, loyalty.For(tier.Gold), 0)
	require.ErrorIs(t, err, pricing.ErrProductNotFound)
}

func TestQuoteSkipsEmptyLines(t *testing.T) {
	svc := pricing.Service{Q: &stubCatalog{products: map[uuid.UUID]dbgen.Product{}}}
	items := []dbgen.CartItem{{ProductID: pgUUID(uuid.New()), Qty: 0}}
	summary, lines, err := svc.Quote(context.Background(), items, loyalty.For(tier.Standard), 0)
	require.NoError(t, err)
	require.Empty(t, lines)
	require.Equal(t, int64(0), summary.Subtotal)
}
