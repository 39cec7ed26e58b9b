package cart_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/cart"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

type memStore struct {
	carts    map[uuid.UUID]dbgen.Cart
	items    map[uuid.UUID][]dbgen.CartItem
	products map[uuid.UUID]dbgen.Product
	touched  int
}

func newMemStore() *memStore {
	return &memStore{
		carts:    map[uuid.UUID]dbgen.Cart{},
		items:    map[uuid.UUID][]dbgen.CartItem{},
		products: map[uuid.UUID]dbgen.Product{},
	}
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func (m *memStore) GetActiveCartByUser(_ context.Context, userID pgtype.UUID) (dbgen.Cart, error) {
	for _, c := range m.carts {
		if c.UserID == userID && c.Active {
			return c, nil
		}
	}
	return dbgen.Cart{}, pgx.ErrNoRows
}

func (m *memStore) CreateCart(_ context.Context, userID pgtype.UUID) (dbgen.Cart, error) {
	id := uuid.New()
	c := dbgen.Cart{ID: pgUUID(id), UserID: userID, Active: true}
	m.carts[id] = c
	return c, nil
}

func (m *memStore) TouchCart(_ context.Context, _ pgtype.UUID) error {
	m.touched++
	return nil
}

func (m *memStore) ListCartItems(_ context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error) {
	return m.items[uuid.UUID(cartID.Bytes)], nil
}

func (m *memStore) FindCartItemByProduct(_ context.Context, arg dbgen.FindCartItemByProductParams) (dbgen.CartItem, error) {
	for _, it := range m.items[uuid.UUID(arg.CartID.Bytes)] {
		if it.ProductID == arg.ProductID {
			return it, nil
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (m *memStore) CreateCartItem(_ context.Context, arg dbgen.CreateCartItemParams) (dbgen.CartItem, error) {
	item := dbgen.CartItem{
		ID:        pgUUID(uuid.New()),
		CartID:    arg.CartID,
		ProductID: arg.ProductID,
		Title:     arg.Title,
		Qty:       arg.Qty,
		UnitPrice: arg.UnitPrice,
		Subtotal:  arg.Subtotal,
	}
	key := uuid.UUID(arg.CartID.Bytes)
	m.items[key] = append(m.items[key], item)
	return item, nil
}

func (m *memStore) UpdateCartItemQty(_ context.Context, arg dbgen.UpdateCartItemQtyParams) (dbgen.CartItem, error) {
	for key, items := range m.items {
		for i, it := range items {
			if it.ID == arg.ID {
				it.Qty = arg.Qty
				it.Subtotal = arg.Subtotal
				m.items[key][i] = it
				return it, nil
			}
		}
	}
	return dbgen.CartItem{}, pgx.ErrNoRows
}

func (m *memStore) DeleteCartItemByProduct(_ context.Context, arg dbgen.DeleteCartItemByProductParams) error {
	key := uuid.UUID(arg.CartID.Bytes)
	kept := m.items[key][:0]
	for _, it := range m.items[key] {
		if it.ProductID != arg.ProductID {
			kept = append(kept, it)
		}
	}
	m.items[key] = kept
	return nil
}

func (m *memStore) DeleteCartItemsByCart(_ context.Context, cartID pgtype.UUID) error {
	m.items[uuid.UUID(cartID.Bytes)] = nil
	return nil
}

func (m *memStore) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	p, ok := m.products[uuid.UUID(id.Bytes)]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func seedProduct(store *memStore, price int64, stock int32) uuid.UUID {
	id := uuid.New()
	store.products[id] = dbgen.Product{ID: pgUUID(id), Title: "Linen shirt", Price: price, Stock: stock}
	return id
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	store := newMemStore()
	productID := seedProduct(store, 75_000, 5)
	svc := &cart.Service{Q: store}
	userID := uuid.NewString()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, productID.String(), 2))

	_, items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(2), items[0].Qty)
	require.Equal(t, int64(75_000), items[0].UnitPrice)
	require.Equal(t, int64(150_000), items[0].Subtotal)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	store := newMemStore()
	productID := seedProduct(store, 10_000, 5)
	svc := &cart.Service{Q: store}
	userID := uuid.NewString()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, productID.String(), 1))
	require.NoError(t, svc.AddItem(ctx, userID, productID.String(), 2))

	_, items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(3), items[0].Qty)
	require.Equal(t, int64(30_000), items[0].Subtotal)
}

func TestAddItemZeroQtyRemovesLine(t *testing.T) {
	store := newMemStore()
	productID := seedProduct(store, 10_000, 5)
	svc := &cart.Service{Q: store}
	userID := uuid.NewString()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, productID.String(), 1))
	require.NoError(t, svc.AddItem(ctx, userID, productID.String(), 0))

	_, items, err := svc.Items(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestAddItemOutOfStock(t *testing.T) {
	store := newMemStore()
	productID := seedProduct(store, 10_000, 0)
	svc := &cart.Service{Q: store}

	err := svc.AddItem(context.Background(), uuid.NewString(), productID.String(), 1)
	require.ErrorIs(t, err, cart.ErrOutOfStock)
}

func TestSetQtyUnknownLine(t *testing.T) {
	store := newMemStore()
	productID := seedProduct(store, 10_000, 5)
	svc := &cart.Service{Q: store}

	err := svc.SetQty(context.Background(), uuid.NewString(), productID.String(), 3)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestEnsureCartReusesActiveCart(t *testing.T) {
	store := newMemStore()
	svc := &cart.Service{Q: store}
	userID := uuid.NewString()
	ctx := context.Background()

	first, err := svc.EnsureCart(ctx, userID)
	require.NoError(t, err)
	second, err := svc.EnsureCart(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.carts, 1)
}
