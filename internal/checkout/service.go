package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hanbutik/backend-butik/internal/cart"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/obs"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

// ErrEmptyCart indicates there is nothing to check out.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Querier captures the persistence operations checkout performs.
type Querier interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
	GetActiveCartByUser(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	ListCartItems(ctx context.Context, cartID pgtype.UUID) ([]dbgen.CartItem, error)
	CreateOrder(ctx context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error)
	CreateOrderItem(ctx context.Context, arg dbgen.CreateOrderItemParams) error
}

// Quoter reprices cart contents against the catalog.
type Quoter interface {
	Quote(ctx context.Context, items []dbgen.CartItem, b loyalty.Benefits, extraBps int32) (pricing.Summary, []pricing.Line, error)
}

// Settler finalises the side effects of an accepted order.
type Settler interface {
	Settle(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
}

// Service turns a cart into an order. When the customer asks for an extra
// discount beyond their tier base, the order enters negotiation instead of
// settling immediately.
type Service struct {
	Q        Querier
	Pool     *pgxpool.Pool
	Tx       func(tx pgx.Tx) Querier
	Pricer   Quoter
	Settler  Settler
	Events   *events.Bus
	Currency string
}

// Checkout creates an order from the customer's active cart. extraBps is
// the additional discount the customer requests on top of their tier base,
// in basis points; zero means no negotiation.
func (s Service) Checkout(ctx context.Context, userID string, extraBps int32) (dbgen.Order, error) {
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "CheckoutService.Checkout")
	defer span.End()

	mode := "immediate"
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("checkout.mode", mode),
			attribute.String("checkout.result", result),
		)
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues(mode, result).Inc()
		}
	}()

	uid, err := cart.ToUUID(userID)
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("checkout: parse user id: %w", err)
	}
	user, err := s.Q.GetUserByID(ctx, uid)
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("checkout: fetch user: %w", err)
	}
	benefits := loyalty.For(tier.Parse(user.Tier))

	requestedExtra, err := benefits.RequestExtra(extraBps)
	if err != nil {
		return dbgen.Order{}, err
	}
	negotiate := requestedExtra > 0
	if negotiate {
		mode = "negotiation"
	}

	activeCart, err := s.Q.GetActiveCartByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrEmptyCart
		}
		return dbgen.Order{}, fmt.Errorf("checkout: fetch cart: %w", err)
	}
	items, err := s.Q.ListCartItems(ctx, activeCart.ID)
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("checkout: list cart items: %w", err)
	}
	if len(items) == 0 {
		return dbgen.Order{}, ErrEmptyCart
	}

	// Orders entering negotiation are priced at the tier base; the extra
	// is applied only once an admin grants it.
	summary, lines, err := s.Pricer.Quote(ctx, items, benefits, 0)
	if err != nil {
		return dbgen.Order{}, err
	}

	status := dbgen.OrderStatusACCEPTED
	finalBps := pgtype.Int4{Int32: summary.DiscountBps, Valid: true}
	if negotiate {
		status = dbgen.OrderStatusREQUESTED
		finalBps = pgtype.Int4{}
	}

	order, err := s.createOrder(ctx, createOrderInput{
		userID:         uid,
		cartID:         activeCart.ID,
		status:         status,
		userTier:       user.Tier,
		summary:        summary,
		lines:          lines,
		requestedExtra: requestedExtra,
		finalBps:       finalBps,
	})
	if err != nil {
		return dbgen.Order{}, err
	}

	if negotiate {
		s.emitRequested(ctx, order)
		result = "ok"
		return order, nil
	}

	if s.Settler != nil {
		settled, err := s.Settler.Settle(ctx, order.ID)
		if err != nil {
			return dbgen.Order{}, fmt.Errorf("checkout: settle order: %w", err)
		}
		order = settled
	}
	result = "ok"
	return order, nil
}

type createOrderInput struct {
	userID         pgtype.UUID
	cartID         pgtype.UUID
	status         dbgen.OrderStatus
	userTier       string
	summary        pricing.Summary
	lines          []pricing.Line
	requestedExtra int32
	finalBps       pgtype.Int4
}

func (s Service) createOrder(ctx context.Context, in createOrderInput) (dbgen.Order, error) {
	q := s.Q
	var tx pgx.Tx
	if s.Pool != nil {
		var err error
		tx, err = s.Pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return dbgen.Order{}, fmt.Errorf("checkout: begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()
		if s.Tx != nil {
			q = s.Tx(tx)
		}
	}

	currency := s.Currency
	if currency == "" {
		currency = "TRY"
	}
	order, err := q.CreateOrder(ctx, dbgen.CreateOrderParams{
		UserID:            in.userID,
		CartID:            in.cartID,
		Status:            in.status,
		Currency:          currency,
		Tier:              in.userTier,
		Subtotal:          in.summary.Subtotal,
		Shipping:          in.summary.Shipping,
		BaseDiscountBps:   in.summary.DiscountBps,
		RequestedExtraBps: in.requestedExtra,
		FinalDiscountBps:  in.finalBps,
		Discount:          in.summary.Discount,
		Total:             in.summary.Total,
	})
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("checkout: create order: %w", err)
	}
	for _, line := range in.lines {
		if err := q.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Title:     line.Title,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		}); err != nil {
			return dbgen.Order{}, fmt.Errorf("checkout: create order item: %w", err)
		}
	}
	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			return dbgen.Order{}, fmt.Errorf("checkout: commit: %w", err)
		}
	}
	return order, nil
}

func (s Service) emitRequested(ctx context.Context, order dbgen.Order) {
	if s.Events == nil {
		return
	}
	_, _ = s.Events.Emit(ctx, events.TopicNegotiationRequested, order.ID, map[string]any{
		"orderId":           cart.UUIDString(order.ID),
		"userId":            cart.UUIDString(order.UserID),
		"tier":              order.Tier,
		"requestedExtraBps": order.RequestedExtraBps,
		"subtotal":          order.Subtotal,
	})
}
