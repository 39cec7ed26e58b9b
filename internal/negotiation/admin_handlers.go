package negotiation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/cart"
	"github.com/hanbutik/backend-butik/internal/checkout"
	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
)

// AdminReader lists and loads orders for admin endpoints.
type AdminReader interface {
	GetOrderByID(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ListOrders(ctx context.Context, arg dbgen.ListOrdersParams) ([]dbgen.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.OrderItem, error)
}

// AdminHandler exposes the admin side of order negotiation.
type AdminHandler struct {
	Q   AdminReader
	Svc Service
}

// List returns all orders, newest first.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	total, err := h.Q.CountOrders(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to count orders", nil)
		return
	}
	orders, err := h.Q.ListOrders(r.Context(), dbgen.ListOrdersParams{
		Limit:  int32(perPage),
		Offset: common.Offset(page, perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to list orders", nil)
		return
	}
	response := make([]map[string]any, 0, len(orders))
	for _, ord := range orders {
		view := checkout.OrderView(ord)
		view["userId"] = cart.UUIDString(ord.UserID)
		response = append(response, view)
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data": response,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

// Get returns any order with its lines.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	oID, err := cart.ToUUID(chi.URLParam(r, "orderId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	ord, err := h.Q.GetOrderByID(r.Context(), oID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load order", nil)
		return
	}
	items, err := h.Q.ListOrderItems(r.Context(), ord.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "failed to load order items", nil)
		return
	}
	view := checkout.OrderView(ord)
	view["userId"] = cart.UUIDString(ord.UserID)
	view["items"] = orderItemViews(items)
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Respond applies an admin decision to a pending discount request.
func (h *AdminHandler) Respond(w http.ResponseWriter, r *http.Request) {
	oID, err := cart.ToUUID(chi.URLParam(r, "orderId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	var payload struct {
		Action              string  `json:"action"`
		CounterOfferPercent float64 `json:"counterOfferPercent"`
		Note                string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	action := strings.ToLower(strings.TrimSpace(payload.Action))
	switch action {
	case ActionApprove, ActionReject, ActionCounterOffer:
	default:
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "action must be approve, reject or counter_offer", nil)
		return
	}
	if action == ActionCounterOffer && (payload.CounterOfferPercent <= 0 || payload.CounterOfferPercent > 100) {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "counterOfferPercent must be between 0 and 100", nil)
		return
	}

	order, err := h.Svc.AdminRespond(r.Context(), oID, Decision{
		Action:          action,
		CounterOfferBps: int32(payload.CounterOfferPercent * 100),
		Note:            strings.TrimSpace(payload.Note),
	})
	if err != nil {
		writeNegotiationError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": checkout.OrderView(order)})
}
