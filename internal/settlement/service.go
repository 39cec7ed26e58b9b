package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
	"github.com/hanbutik/backend-butik/internal/negotiation"
	"github.com/hanbutik/backend-butik/internal/obs"
	"github.com/hanbutik/backend-butik/internal/tier"
)

var (
	// ErrOrderNotFound indicates the order does not exist.
	ErrOrderNotFound = errors.New("settlement: order not found")
	// ErrNotSettleable indicates the order is not in an accepted state.
	ErrNotSettleable = errors.New("settlement: order not in a settleable state")

	errAlreadySettled = errors.New("settlement: already settled")
)

// Querier captures the persistence operations settlement performs.
type Querier interface {
	MarkOrderSettled(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	GetOrderByID(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error)
	DecrementProductStock(ctx context.Context, arg dbgen.DecrementProductStockParams) error
	AddUserSpend(ctx context.Context, arg dbgen.AddUserSpendParams) (dbgen.User, error)
	UpdateUserTier(ctx context.Context, arg dbgen.UpdateUserTierParams) error
	DeleteCartItemsByCart(ctx context.Context, cartID pgtype.UUID) error
	DeactivateCart(ctx context.Context, id pgtype.UUID) error
}

// Service applies the one-time side effects of an accepted order: stock
// decrement, lifetime spend accrual, tier recompute and cart clearing.
type Service struct {
	Q      Querier
	Pool   *pgxpool.Pool
	Tx     func(tx pgx.Tx) Querier
	Events *events.Bus
}

// Settle finalises the order identified by id. Calling it again after a
// successful settlement is a no-op returning the already-settled order.
func (s Service) Settle(ctx context.Context, id pgtype.UUID) (dbgen.Order, error) {
	ctx, span := otel.Tracer("settlement.Service").Start(ctx, "SettlementService.Settle")
	defer span.End()

	result := "error"
	defer func() {
		span.SetAttributes(attribute.String("settlement.result", result))
		if obs.SettlementsTotal != nil {
			obs.SettlementsTotal.WithLabelValues(result).Inc()
		}
	}()

	q := s.Q
	var tx pgx.Tx
	if s.Pool != nil {
		var err error
		tx, err = s.Pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()
		if s.Tx != nil {
			q = s.Tx(tx)
		}
	}

	order, err := s.apply(ctx, q, id)
	if err != nil {
		if errors.Is(err, errAlreadySettled) {
			result = "replay"
			return order, nil
		}
		return dbgen.Order{}, err
	}
	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: commit: %w", err)
		}
	}
	s.emit(ctx, order)
	result = "ok"
	return order, nil
}

func (s Service) apply(ctx context.Context, q Querier, id pgtype.UUID) (dbgen.Order, error) {
	order, err := q.MarkOrderSettled(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, fmt.Errorf("settlement: mark settled: %w", err)
		}
		// The guarded update matched nothing. Distinguish replay from a
		// genuinely unsettleable order.
		current, getErr := q.GetOrderByID(ctx, id)
		if getErr != nil {
			if errors.Is(getErr, pgx.ErrNoRows) {
				return dbgen.Order{}, ErrOrderNotFound
			}
			return dbgen.Order{}, fmt.Errorf("settlement: fetch order: %w", getErr)
		}
		if current.SettledAt.Valid {
			return current, errAlreadySettled
		}
		return dbgen.Order{}, ErrNotSettleable
	}
	if !negotiation.IsAccepted(order.Status) {
		return dbgen.Order{}, ErrNotSettleable
	}

	items, err := q.ListOrderItems(ctx, order.ID)
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("settlement: list items: %w", err)
	}
	for _, item := range items {
		if err := q.DecrementProductStock(ctx, dbgen.DecrementProductStockParams{
			ID:  item.ProductID,
			Qty: item.Qty,
		}); err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: decrement stock: %w", err)
		}
	}

	user, err := q.AddUserSpend(ctx, dbgen.AddUserSpendParams{
		ID:     order.UserID,
		Amount: order.Total,
	})
	if err != nil {
		return dbgen.Order{}, fmt.Errorf("settlement: add spend: %w", err)
	}
	if next := tier.Compute(user.TotalSpent); next != tier.Parse(user.Tier) {
		if err := q.UpdateUserTier(ctx, dbgen.UpdateUserTierParams{
			ID:   user.ID,
			Tier: string(next),
		}); err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: update tier: %w", err)
		}
	}

	if order.CartID.Valid {
		if err := q.DeleteCartItemsByCart(ctx, order.CartID); err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: clear cart: %w", err)
		}
		if err := q.DeactivateCart(ctx, order.CartID); err != nil {
			return dbgen.Order{}, fmt.Errorf("settlement: deactivate cart: %w", err)
		}
	}
	return order, nil
}

func (s Service) emit(ctx context.Context, order dbgen.Order) {
	if s.Events == nil {
		return
	}
	_, _ = s.Events.Emit(ctx, events.TopicOrderSettled, order.ID, map[string]any{
		"orderId":  uuidString(order.ID),
		"userId":   uuidString(order.UserID),
		"total":    order.Total,
		"discount": order.Discount,
	})
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	value, err := id.Value()
	if err != nil {
		return ""
	}
	s, _ := value.(string)
	return s
}
