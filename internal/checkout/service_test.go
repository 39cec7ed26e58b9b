package checkout_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/checkout"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

type stubStore struct {
	user       dbgen.User
	cart       dbgen.Cart
	items      []dbgen.CartItem
	products   map[uuid.UUID]dbgen.Product
	orders     []dbgen.Order
	orderItems []dbgen.CreateOrderItemParams
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func (s *stubStore) GetUserByID(_ context.Context, id pgtype.UUID) (dbgen.User, error) {
	if s.user.ID != id {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubStore) GetActiveCartByUser(_ context.Context, userID pgtype.UUID) (dbgen.Cart, error) {
	if s.cart.UserID != userID {
		return dbgen.Cart{}, pgx.ErrNoRows
	}
	return s.cart, nil
}

func (s *stubStore) ListCartItems(_ context.Context, _ pgtype.UUID) ([]dbgen.CartItem, error) {
	return s.items, nil
}

func (s *stubStore) CreateOrder(_ context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error) {
	order := dbgen.Order{
		ID:                pgUUID(uuid.New()),
		UserID:            arg.UserID,
		CartID:            arg.CartID,
		Status:            arg.Status,
		Currency:          arg.Currency,
		Tier:              arg.Tier,
		Subtotal:          arg.Subtotal,
		Shipping:          arg.Shipping,
		BaseDiscountBps:   arg.BaseDiscountBps,
		RequestedExtraBps: arg.RequestedExtraBps,
		FinalDiscountBps:  arg.FinalDiscountBps,
		Discount:          arg.Discount,
		Total:             arg.Total,
	}
	s.orders = append(s.orders, order)
	return order, nil
}

func (s *stubStore) CreateOrderItem(_ context.Context, arg dbgen.CreateOrderItemParams) error {
	s.orderItems = append(s.orderItems, arg)
	return nil
}

func (s *stubStore) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	p, ok := s.products[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

type stubSettler struct {
	settled []pgtype.UUID
}

func (s *stubSettler) Settle(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	s.settled = append(s.settled, id)
	return dbgen.Order{ID: id, SettledAt: pgtype.Timestamptz{Valid: true}}, nil
}

func newFixture(userTier tier.Tier, price int64, qty int32) (*stubStore, uuid.UUID) {
	userID := uuid.New()
	productID := uuid.New()
	cartID := uuid.New()
	return &stubStore{
		user: dbgen.User{ID: pgUUID(userID), Tier: string(userTier)},
		cart: dbgen.Cart{ID: pgUUID(cartID), UserID: pgUUID(userID), Active: true},
		items: []dbgen.CartItem{
			{CartID: pgUUID(cartID), ProductID: pgUUID(productID), Qty: qty, UnitPrice: price},
		},
		products: map[uuid.UUID]dbgen.Product{
			productID: {ID: pgUUID(productID), Title: "Wool coat", Price: price, Stock: 10},
		},
	}, userID
}

func newService(store *stubStore, settler checkout.Settler) checkout.Service {
	return checkout.Service{
		Q:        store,
		Pricer:   pricing.Service{Q: store, StandardShipping: 1_500},
		Settler:  settler,
		Currency: "TRY",
	}
}

func TestCheckoutImmediateSettles(t *testing.T) {
	store, userID := newFixture(tier.Silver, 100_000, 2)
	settler := &stubSettler{}
	svc := newService(store, settler)

	order, err := svc.Checkout(context.Background(), userID.String(), 0)
	require.NoError(t, err)
	require.True(t, order.SettledAt.Valid)
	require.Len(t, settler.settled, 1)
	require.Len(t, store.orders, 1)

	created := store.orders[0]
	require.Equal(t, dbgen.OrderStatusACCEPTED, created.Status)
	require.Equal(t, int64(200_000), created.Subtotal)
	require.Equal(t, int32(1000), created.BaseDiscountBps)
	require.Equal(t, int64(20_000), created.Discount)
	// Silver ships free, so the total is subtotal minus discount.
	require.Equal(t, int64(180_000), created.Total)
	require.True(t, created.FinalDiscountBps.Valid)
	require.Len(t, store.orderItems, 1)
}

func TestCheckoutGoldExtraEntersNegotiation(t *testing.T) {
	store, userID := newFixture(tier.Gold, 100_000, 2)
	settler := &stubSettler{}
	svc := newService(store, settler)

	order, err := svc.Checkout(context.Background(), userID.String(), 2000)
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusREQUESTED, order.Status)
	require.Empty(t, settler.settled)

	// Priced at the tier base until an admin grants the extra, requested
	// amount recorded clamped to the cap.
	require.Equal(t, int32(1500), order.BaseDiscountBps)
	require.Equal(t, int32(1000), order.RequestedExtraBps)
	require.Equal(t, int64(30_000), order.Discount)
	require.Equal(t, int64(0), order.Shipping)
	require.False(t, order.FinalDiscountBps.Valid)
}

func TestCheckoutNonGoldExtraRejected(t *testing.T) {
	store, userID := newFixture(tier.Bronze, 100_000, 1)
	svc := newService(store, &stubSettler{})

	_, err := svc.Checkout(context.Background(), userID.String(), 500)
	require.ErrorIs(t, err, loyalty.ErrPolicyViolation)
}

func TestCheckoutEmptyCart(t *testing.T) {
	store, userID := newFixture(tier.Silver, 100_000, 1)
	store.items = nil
	svc := newService(store, &stubSettler{})

	_, err := svc.Checkout(context.Background(), userID.String(), 0)
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestCheckoutMissingProductAborts(t *testing.T) {
	store, userID := newFixture(tier.Silver, 100_000, 1)
	store.products = map[uuid.UUID]dbgen.Product{}
	svc := newService(store, &stubSettler{})

	_, err := svc.Checkout(context.Background(), userID.String(), 0)
	require.ErrorIs(t, err, pricing.ErrProductNotFound)
	require.Empty(t, store.orders)
}
