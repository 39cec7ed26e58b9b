package negotiation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/events"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/obs"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("negotiation: order not found")
	// ErrForbidden indicates the order belongs to another customer.
	ErrForbidden = errors.New("negotiation: order does not belong to user")
	// ErrInvalidTransition indicates the requested action is not allowed
	// from the order's current status.
	ErrInvalidTransition = errors.New("negotiation: invalid state transition")
)

// Admin decision actions.
const (
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionCounterOffer = "counter_offer"
)

// Decision carries an admin's response to a discount request.
type Decision struct {
	Action          string
	CounterOfferBps int32
	Note            string
}

// Querier captures the persistence operations the negotiation service needs.
type Querier interface {
	GetOrderByID(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ApplyCounterOffer(ctx context.Context, arg dbgen.ApplyCounterOfferParams) (dbgen.Order, error)
	FinalizeOrder(ctx context.Context, arg dbgen.FinalizeOrderParams) (dbgen.Order, error)
	TransitionOrderStatus(ctx context.Context, arg dbgen.TransitionOrderStatusParams) (dbgen.Order, error)
}

// Settler finalises the side effects of an accepted order.
type Settler interface {
	Settle(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
}

// Service drives the human-in-the-loop discount negotiation between an
// admin and a customer. All status changes are compare-and-swap updates so
// concurrent responders cannot double-apply a decision.
type Service struct {
	Q       Querier
	Settler Settler
	Events  *events.Bus
}

// AdminRespond applies an admin decision to a pending discount request.
// Repeating a decision that already landed is a no-op returning the
// current order.
func (s Service) AdminRespond(ctx context.Context, orderID pgtype.UUID, d Decision) (dbgen.Order, error) {
	ctx, span := otel.Tracer("negotiation.Service").Start(ctx, "NegotiationService.AdminRespond")
	defer span.End()

	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("negotiation.action", d.Action),
			attribute.String("negotiation.result", result),
		)
		if obs.NegotiationTransitionsTotal != nil {
			obs.NegotiationTransitionsTotal.WithLabelValues(d.Action, result).Inc()
		}
	}()

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return dbgen.Order{}, err
	}

	if IsTerminal(order.Status) {
		if replaysDecision(order.Status, d.Action) {
			result = "replay"
			return order, nil
		}
		return dbgen.Order{}, ErrInvalidTransition
	}

	switch d.Action {
	case ActionApprove:
		order, err = s.approve(ctx, order)
	case ActionReject:
		order, err = s.transition(ctx, order, dbgen.OrderStatusREQUESTED, dbgen.OrderStatusADMINREJECTED, events.TopicNegotiationDeclined)
	case ActionCounterOffer:
		order, err = s.counterOffer(ctx, order, d)
	default:
		return dbgen.Order{}, fmt.Errorf("negotiation: unknown action %q", d.Action)
	}
	if err != nil {
		return dbgen.Order{}, err
	}
	result = "ok"
	return order, nil
}

// CustomerRespond lets the order owner accept or reject a standing counter
// offer. Accepting settles the order immediately.
func (s Service) CustomerRespond(ctx context.Context, orderID, userID pgtype.UUID, accept bool) (dbgen.Order, error) {
	ctx, span := otel.Tracer("negotiation.Service").Start(ctx, "NegotiationService.CustomerRespond")
	defer span.End()

	action := "customer_reject"
	if accept {
		action = "customer_accept"
	}
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("negotiation.action", action),
			attribute.String("negotiation.result", result),
		)
		if obs.NegotiationTransitionsTotal != nil {
			obs.NegotiationTransitionsTotal.WithLabelValues(action, result).Inc()
		}
	}()

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return dbgen.Order{}, err
	}
	if order.UserID != userID {
		return dbgen.Order{}, ErrForbidden
	}

	if IsTerminal(order.Status) {
		if accept && order.Status == dbgen.OrderStatusACCEPTED {
			result = "replay"
			return order, nil
		}
		if !accept && order.Status == dbgen.OrderStatusCUSTOMERREJECTED {
			result = "replay"
			return order, nil
		}
		return dbgen.Order{}, ErrInvalidTransition
	}
	if order.Status != dbgen.OrderStatusCOUNTEROFFERED {
		return dbgen.Order{}, ErrInvalidTransition
	}

	if !accept {
		order, err = s.transition(ctx, order, dbgen.OrderStatusCOUNTEROFFERED, dbgen.OrderStatusCUSTOMERREJECTED, events.TopicNegotiationRejected)
		if err != nil {
			return dbgen.Order{}, err
		}
		result = "ok"
		return order, nil
	}

	order, err = s.acceptCounterOffer(ctx, order)
	if err != nil {
		return dbgen.Order{}, err
	}
	result = "ok"
	return order, nil
}

func (s Service) getOrder(ctx context.Context, id pgtype.UUID) (dbgen.Order, error) {
	order, err := s.Q.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrNotFound
		}
		return dbgen.Order{}, fmt.Errorf("negotiation: fetch order: %w", err)
	}
	return order, nil
}

// approve grants the customer's requested extra discount, clamped to the
// tier cap, and settles the order.
func (s Service) approve(ctx context.Context, order dbgen.Order) (dbgen.Order, error) {
	benefits := loyalty.For(tier.Parse(order.Tier))
	finalBps := benefits.BaseDiscountBps + benefits.ClampExtra(order.RequestedExtraBps)
	summary := pricing.Apply(order.Subtotal, benefits, finalBps, order.Shipping)

	updated, err := s.Q.FinalizeOrder(ctx, dbgen.FinalizeOrderParams{
		ID:               order.ID,
		FromStatus:       dbgen.OrderStatusREQUESTED,
		Status:           dbgen.OrderStatusADMINAPPROVED,
		FinalDiscountBps: pgtype.Int4{Int32: summary.DiscountBps, Valid: true},
		Discount:         summary.Discount,
		Total:            summary.Total,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrInvalidTransition
		}
		return dbgen.Order{}, fmt.Errorf("negotiation: approve: %w", err)
	}
	if s.Settler != nil {
		if settled, err := s.Settler.Settle(ctx, updated.ID); err == nil {
			updated = settled
		} else {
			return dbgen.Order{}, fmt.Errorf("negotiation: settle approved order: %w", err)
		}
	}
	s.emit(ctx, events.TopicNegotiationApproved, updated)
	return updated, nil
}

// counterOffer proposes a replacement total discount to the customer.
// Out-of-range percentages are clamped to the tier ceiling, same as at
// request creation and settlement.
func (s Service) counterOffer(ctx context.Context, order dbgen.Order, d Decision) (dbgen.Order, error) {
	benefits := loyalty.For(tier.Parse(order.Tier))
	counterBps := benefits.ClampTotal(d.CounterOfferBps)
	note := pgtype.Text{}
	if d.Note != "" {
		note = pgtype.Text{String: d.Note, Valid: true}
	}
	updated, err := s.Q.ApplyCounterOffer(ctx, dbgen.ApplyCounterOfferParams{
		ID:              order.ID,
		CounterOfferBps: pgtype.Int4{Int32: counterBps, Valid: true},
		CounterNote:     note,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrInvalidTransition
		}
		return dbgen.Order{}, fmt.Errorf("negotiation: counter offer: %w", err)
	}
	s.emit(ctx, events.TopicNegotiationCounterOffered, updated)
	return updated, nil
}

// acceptCounterOffer reprices the order with the admin's counter percent
// replacing the whole discount, then settles it.
func (s Service) acceptCounterOffer(ctx context.Context, order dbgen.Order) (dbgen.Order, error) {
	if !order.CounterOfferBps.Valid {
		return dbgen.Order{}, ErrInvalidTransition
	}
	benefits := loyalty.For(tier.Parse(order.Tier))
	summary := pricing.Apply(order.Subtotal, benefits, order.CounterOfferBps.Int32, order.Shipping)

	updated, err := s.Q.FinalizeOrder(ctx, dbgen.FinalizeOrderParams{
		ID:               order.ID,
		FromStatus:       dbgen.OrderStatusCOUNTEROFFERED,
		Status:           dbgen.OrderStatusACCEPTED,
		FinalDiscountBps: pgtype.Int4{Int32: summary.DiscountBps, Valid: true},
		Discount:         summary.Discount,
		Total:            summary.Total,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrInvalidTransition
		}
		return dbgen.Order{}, fmt.Errorf("negotiation: accept counter offer: %w", err)
	}
	if s.Settler != nil {
		if settled, err := s.Settler.Settle(ctx, updated.ID); err == nil {
			updated = settled
		} else {
			return dbgen.Order{}, fmt.Errorf("negotiation: settle accepted order: %w", err)
		}
	}
	s.emit(ctx, events.TopicNegotiationAccepted, updated)
	return updated, nil
}

func (s Service) transition(ctx context.Context, order dbgen.Order, from, to dbgen.OrderStatus, topic string) (dbgen.Order, error) {
	if !CanTransition(from, to) {
		return dbgen.Order{}, ErrInvalidTransition
	}
	updated, err := s.Q.TransitionOrderStatus(ctx, dbgen.TransitionOrderStatusParams{
		ID:         order.ID,
		FromStatus: from,
		Status:     to,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Order{}, ErrInvalidTransition
		}
		return dbgen.Order{}, fmt.Errorf("negotiation: transition %s to %s: %w", from, to, err)
	}
	s.emit(ctx, topic, updated)
	return updated, nil
}

// replaysDecision reports whether repeating the action on a terminal order
// is a harmless retry.
func replaysDecision(status dbgen.OrderStatus, action string) bool {
	switch action {
	case ActionApprove:
		return status == dbgen.OrderStatusADMINAPPROVED
	case ActionReject:
		return status == dbgen.OrderStatusADMINREJECTED
	}
	return false
}

func (s Service) emit(ctx context.Context, topic string, order dbgen.Order) {
	if s.Events == nil {
		return
	}
	payload := map[string]any{
		"orderId": uuidString(order.ID),
		"userId":  uuidString(order.UserID),
		"status":  string(order.Status),
		"total":   order.Total,
	}
	if order.CounterOfferBps.Valid {
		payload["counterOfferBps"] = order.CounterOfferBps.Int32
	}
	_, _ = s.Events.Emit(ctx, topic, order.ID, payload)
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
