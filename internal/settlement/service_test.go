package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/settlement"
	"github.com/hanbutik/backend-butik/internal/tier"
)

type stubStore struct {
	order     dbgen.Order
	items     []dbgen.OrderItem
	user      dbgen.User
	stock     map[uuid.UUID]int32
	tierSetTo string
	cleared   bool
	deactived bool
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func (s *stubStore) MarkOrderSettled(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	if s.order.ID != id || s.order.SettledAt.Valid {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	switch s.order.Status {
	case dbgen.OrderStatusACCEPTED, dbgen.OrderStatusADMINAPPROVED:
	default:
		return dbgen.Order{}, pgx.ErrNoRows
	}
	s.order.SettledAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	return s.order, nil
}

func (s *stubStore) GetOrderByID(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	if s.order.ID != id {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return s.order, nil
}

func (s *stubStore) ListOrderItems(_ context.Context, _ pgtype.UUID) ([]dbgen.OrderItem, error) {
	return s.items, nil
}

func (s *stubStore) DecrementProductStock(_ context.Context, arg dbgen.DecrementProductStockParams) error {
	id := uuid.UUID(arg.ID.Bytes)
	next := s.stock[id] - arg.Qty
	if next < 0 {
		next = 0
	}
	s.stock[id] = next
	return nil
}

func (s *stubStore) AddUserSpend(_ context.Context, arg dbgen.AddUserSpendParams) (dbgen.User, error) {
	s.user.TotalSpent += arg.Amount
	return s.user, nil
}

func (s *stubStore) UpdateUserTier(_ context.Context, arg dbgen.UpdateUserTierParams) error {
	s.tierSetTo = arg.Tier
	return nil
}

func (s *stubStore) DeleteCartItemsByCart(_ context.Context, _ pgtype.UUID) error {
	s.cleared = true
	return nil
}

func (s *stubStore) DeactivateCart(_ context.Context, _ pgtype.UUID) error {
	s.deactived = true
	return nil
}

func newStore(status dbgen.OrderStatus, total int64, spend int64, userTier string) (*stubStore, uuid.UUID, uuid.UUID) {
	orderID := uuid.New()
	productID := uuid.New()
	userID := uuid.New()
	return &stubStore{
		order: dbgen.Order{
			ID:     pgUUID(orderID),
			UserID: pgUUID(userID),
			CartID: pgUUID(uuid.New()),
			Status: status,
			Total:  total,
		},
		items: []dbgen.OrderItem{{ProductID: pgUUID(productID), Qty: 3}},
		user:  dbgen.User{ID: pgUUID(userID), TotalSpent: spend, Tier: userTier},
		stock: map[uuid.UUID]int32{productID: 10},
	}, orderID, productID
}

func TestSettleAppliesSideEffects(t *testing.T) {
	store, orderID, productID := newStore(dbgen.OrderStatusACCEPTED, 250_000, 0, string(tier.Standard))
	svc := settlement.Service{Q: store}

	order, err := svc.Settle(context.Background(), pgUUID(orderID))
	require.NoError(t, err)
	require.True(t, order.SettledAt.Valid)
	require.Equal(t, int32(7), store.stock[productID])
	require.Equal(t, int64(250_000), store.user.TotalSpent)
	require.Equal(t, string(tier.Bronze), store.tierSetTo)
	require.True(t, store.cleared)
	require.True(t, store.deactived)
}

func TestSettleIsIdempotent(t *testing.T) {
	store, orderID, productID := newStore(dbgen.OrderStatusADMINAPPROVED, 100_000, 0, string(tier.Standard))
	svc := settlement.Service{Q: store}
	ctx := context.Background()

	_, err := svc.Settle(ctx, pgUUID(orderID))
	require.NoError(t, err)
	again, err := svc.Settle(ctx, pgUUID(orderID))
	require.NoError(t, err)
	require.True(t, again.SettledAt.Valid)

	// Side effects ran exactly once.
	require.Equal(t, int32(7), store.stock[productID])
	require.Equal(t, int64(100_000), store.user.TotalSpent)
}

func TestSettleStockFloorsAtZero(t *testing.T) {
	store, orderID, productID := newStore(dbgen.OrderStatusACCEPTED, 10_000, 0, string(tier.Standard))
	store.stock[productID] = 2
	svc := settlement.Service{Q: store}

	_, err := svc.Settle(context.Background(), pgUUID(orderID))
	require.NoError(t, err)
	require.Equal(t, int32(0), store.stock[productID])
}

func TestSettleRejectsPendingOrder(t *testing.T) {
	store, orderID, _ := newStore(dbgen.OrderStatusREQUESTED, 10_000, 0, string(tier.Standard))
	svc := settlement.Service{Q: store}

	_, err := svc.Settle(context.Background(), pgUUID(orderID))
	require.ErrorIs(t, err, settlement.ErrNotSettleable)
}

func TestSettleUnknownOrder(t *testing.T) {
	store, _, _ := newStore(dbgen.OrderStatusACCEPTED, 10_000, 0, string(tier.Standard))
	svc := settlement.Service{Q: store}

	_, err := svc.Settle(context.Background(), pgUUID(uuid.New()))
	require.ErrorIs(t, err, settlement.ErrOrderNotFound)
}

func TestSettleKeepsTierWhenUnchanged(t *testing.T) {
	store, orderID, _ := newStore(dbgen.OrderStatusACCEPTED, 50_000, 0, string(tier.Standard))
	svc := settlement.Service{Q: store}

	_, err := svc.Settle(context.Background(), pgUUID(orderID))
	require.NoError(t, err)
	require.Empty(t, store.tierSetTo)
}
