package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/pricing"
)

// Handler exposes checkout over HTTP.
type Handler struct {
	Svc Service
}

// Checkout turns the caller's cart into an order. The optional
// requestedDiscountPercent asks for an extra discount beyond the tier base
// and routes the order into negotiation.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	var payload struct {
		RequestedDiscountPercent float64 `json:"requestedDiscountPercent"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	if payload.RequestedDiscountPercent < 0 || payload.RequestedDiscountPercent > 100 {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "requestedDiscountPercent must be between 0 and 100", nil)
		return
	}
	extraBps := int32(payload.RequestedDiscountPercent * 100)

	order, err := h.Svc.Checkout(r.Context(), userID, extraBps)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": OrderView(order)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, loyalty.ErrPolicyViolation):
		common.JSONError(w, http.StatusForbidden, common.CodePolicyViolation, "tier does not allow discount negotiation", nil)
	case errors.Is(err, pricing.ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product no longer available", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "checkout failed", nil)
	}
}

// OrderView renders an order in the canonical API shape.
func OrderView(order dbgen.Order) map[string]any {
	view := map[string]any{
		"id":                cart.UUIDString(order.ID),
		"status":            string(order.Status),
		"tier":              order.Tier,
		"currency":          order.Currency,
		"subtotal":          order.Subtotal,
		"shipping":          order.Shipping,
		"discount":          order.Discount,
		"total":             order.Total,
		"baseDiscountBps":   order.BaseDiscountBps,
		"requestedExtraBps": order.RequestedExtraBps,
		"createdAt":         order.CreatedAt,
	}
	if order.CounterOfferBps.Valid {
		view["counterOfferBps"] = order.CounterOfferBps.Int32
	}
	if order.CounterNote.Valid {
		view["counterNote"] = order.CounterNote.String
	}
	if order.FinalDiscountBps.Valid {
		view["finalDiscountBps"] = order.FinalDiscountBps.Int32
	}
	if order.SettledAt.Valid {
		view["settledAt"] = order.SettledAt.Time
	}
	return view
}
