package negotiation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/negotiation"
	"github.com/hanbutik/backend-butik/internal/tier"
)

type stubOrders struct {
	order dbgen.Order
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func (s *stubOrders) GetOrderByID(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	if s.order.ID != id {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return s.order, nil
}

func (s *stubOrders) ApplyCounterOffer(_ context.Context, arg dbgen.ApplyCounterOfferParams) (dbgen.Order, error) {
	if s.order.ID != arg.ID || s.order.Status != dbgen.OrderStatusREQUESTED {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	s.order.Status = dbgen.OrderStatusCOUNTEROFFERED
	s.order.CounterOfferBps = arg.CounterOfferBps
	s.order.CounterNote = arg.CounterNote
	return s.order, nil
}

func (s *stubOrders) FinalizeOrder(_ context.Context, arg dbgen.FinalizeOrderParams) (dbgen.Order, error) {
	if s.order.ID != arg.ID || s.order.Status != arg.FromStatus {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	s.order.Status = arg.Status
	s.order.FinalDiscountBps = arg.FinalDiscountBps
	s.order.Discount = arg.Discount
	s.order.Total = arg.Total
	return s.order, nil
}

func (s *stubOrders) TransitionOrderStatus(_ context.Context, arg dbgen.TransitionOrderStatusParams) (dbgen.Order, error) {
	if s.order.ID != arg.ID || s.order.Status != arg.FromStatus {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	s.order.Status = arg.Status
	return s.order, nil
}

type stubSettler struct {
	settled []pgtype.UUID
	orders  *stubOrders
}

func (s *stubSettler) Settle(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	s.settled = append(s.settled, id)
	return s.orders.order, nil
}

func goldRequest(subtotal int64, extraBps int32) (*stubOrders, uuid.UUID, uuid.UUID) {
	orderID := uuid.New()
	userID := uuid.New()
	store := &stubOrders{order: dbgen.Order{
		ID:                pgUUID(orderID),
		UserID:            pgUUID(userID),
		Status:            dbgen.OrderStatusREQUESTED,
		Tier:              string(tier.Gold),
		Subtotal:          subtotal,
		BaseDiscountBps:   1500,
		RequestedExtraBps: extraBps,
	}}
	return store, orderID, userID
}

func TestAdminApproveClampsRequestedExtra(t *testing.T) {
	store, orderID, _ := goldRequest(200_000, 2000)
	settler := &stubSettler{orders: store}
	svc := negotiation.Service{Q: store, Settler: settler}

	order, err := svc.AdminRespond(context.Background(), pgUUID(orderID), negotiation.Decision{Action: negotiation.ActionApprove})
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusADMINAPPROVED, order.Status)
	require.Equal(t, int32(2500), order.FinalDiscountBps.Int32)
	require.Equal(t, int64(50_000), order.Discount)
	require.Equal(t, int64(150_000), order.Total)
	require.Len(t, settler.settled, 1)
}

func TestAdminCounterOfferThenCustomerAccept(t *testing.T) {
	store, orderID, userID := goldRequest(300_000, 2000)
	settler := &stubSettler{orders: store}
	svc := negotiation.Service{Q: store, Settler: settler}
	ctx := context.Background()

	order, err := svc.AdminRespond(ctx, pgUUID(orderID), negotiation.Decision{
		Action:          negotiation.ActionCounterOffer,
		CounterOfferBps: 1200,
		Note:            "best we can do",
	})
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusCOUNTEROFFERED, order.Status)
	require.Equal(t, int32(1200), order.CounterOfferBps.Int32)

	order, err = svc.CustomerRespond(ctx, pgUUID(orderID), pgUUID(userID), true)
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusACCEPTED, order.Status)
	// The counter percent replaces the whole discount.
	require.Equal(t, int32(1200), order.FinalDiscountBps.Int32)
	require.Equal(t, int64(36_000), order.Discount)
	require.Equal(t, int64(264_000), order.Total)
	require.Len(t, settler.settled, 1)
}

func TestAdminCounterOfferAbovePolicyCap(t *testing.T) {
	store, orderID, _ := goldRequest(100_000, 500)
	svc := negotiation.Service{Q: store}

	// An out-of-range counter percent is clamped to the tier ceiling, the
	// same rule as at request creation and settlement.
	order, err := svc.AdminRespond(context.Background(), pgUUID(orderID), negotiation.Decision{
		Action:          negotiation.ActionCounterOffer,
		CounterOfferBps: 2600,
	})
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusCOUNTEROFFERED, order.Status)
	require.Equal(t, int32(2500), order.CounterOfferBps.Int32)
}

func TestAdminRejectIsTerminal(t *testing.T) {
	store, orderID, userID := goldRequest(100_000, 500)
	svc := negotiation.Service{Q: store}
	ctx := context.Background()

	order, err := svc.AdminRespond(ctx, pgUUID(orderID), negotiation.Decision{Action: negotiation.ActionReject})
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusADMINREJECTED, order.Status)

	// Retrying the same decision is a no-op.
	again, err := svc.AdminRespond(ctx, pgUUID(orderID), negotiation.Decision{Action: negotiation.ActionReject})
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusADMINREJECTED, again.Status)

	// Any other move from a terminal state fails.
	_, err = svc.AdminRespond(ctx, pgUUID(orderID), negotiation.Decision{Action: negotiation.ActionApprove})
	require.ErrorIs(t, err, negotiation.ErrInvalidTransition)
	_, err = svc.CustomerRespond(ctx, pgUUID(orderID), pgUUID(userID), true)
	require.ErrorIs(t, err, negotiation.ErrInvalidTransition)
}

func TestCustomerRejectCounterOffer(t *testing.T) {
	store, orderID, userID := goldRequest(100_000, 500)
	svc := negotiation.Service{Q: store}
	ctx := context.Background()

	_, err := svc.AdminRespond(ctx, pgUUID(orderID), negotiation.Decision{Action: negotiation.ActionCounterOffer, CounterOfferBps: 1800})
	require.NoError(t, err)

	order, err := svc.CustomerRespond(ctx, pgUUID(orderID), pgUUID(userID), false)
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusCUSTOMERREJECTED, order.Status)

	// Rejected counter offers stay rejected.
	_, err = svc.CustomerRespond(ctx, pgUUID(orderID), pgUUID(userID), true)
	require.ErrorIs(t, err, negotiation.ErrInvalidTransition)
}

func TestCustomerRespondOwnership(t *testing.T) {
	store, orderID, _ := goldRequest(100_000, 500)
	store.order.Status = dbgen.OrderStatusCOUNTEROFFERED
	store.order.CounterOfferBps = pgtype.Int4{Int32: 1000, Valid: true}
	svc := negotiation.Service{Q: store}

	_, err := svc.CustomerRespond(context.Background(), pgUUID(orderID), pgUUID(uuid.New()), true)
	require.ErrorIs(t, err, negotiation.ErrForbidden)
}

func TestCustomerRespondBeforeCounterOffer(t *testing.T) {
	store, orderID, userID := goldRequest(100_000, 500)
	svc := negotiation.Service{Q: store}

	_, err := svc.CustomerRespond(context.Background(), pgUUID(orderID), pgUUID(userID), true)
	require.ErrorIs(t, err, negotiation.ErrInvalidTransition)
}

func TestAdminRespondUnknownOrder(t *testing.T) {
	store, _, _ := goldRequest(100_000, 500)
	svc := negotiation.Service{Q: store}

	_, err := svc.AdminRespond(context.Background(), pgUUID(uuid.New()), negotiation.Decision{Action: negotiation.ActionApprove})
	require.ErrorIs(t, err, negotiation.ErrNotFound)
}
