package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hanbutik/backend-butik/internal/common"
	dbgen "github.com/hanbutik/backend-butik/internal/db/gen"
	"github.com/hanbutik/backend-butik/internal/loyalty"
	"github.com/hanbutik/backend-butik/internal/pricing"
	"github.com/hanbutik/backend-butik/internal/tier"
)

// Users resolves the cart owner's loyalty tier for pricing previews.
type Users interface {
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
}

// Handler wires cart services to HTTP.
type Handler struct {
	Svc    *Service
	Users  Users
	Pricer pricing.Service
}

// Get returns the cart contents and a pricing preview for the caller's tier.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cart, items, err := h.Svc.Items(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	benefits, err := h.benefits(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	summary, lines, err := h.Pricer.Quote(r.Context(), items, benefits, 0)
	if err != nil {
		h.writeError(w, err)
		return
	}
	responseItems := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		responseItems = append(responseItems, map[string]any{
			"productId": uuidString(line.ProductID),
			"title":     line.Title,
			"qty":       line.Qty,
			"unitPrice": line.UnitPrice,
			"subtotal":  line.Subtotal,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"cartId": uuidString(cart.ID),
			"items":  responseItems,
			"pricing": map[string]any{
				"subtotal":    summary.Subtotal,
				"discountBps": summary.DiscountBps,
				"discount":    summary.Discount,
				"shipping":    summary.Shipping,
				"total":       summary.Total,
			},
			"tier": string(benefits.Tier),
		},
	})
}

// AddItem inserts or increments a cart line.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if strings.TrimSpace(payload.ProductID) == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "productId is required", nil)
		return
	}
	if err := h.Svc.AddItem(r.Context(), userID, payload.ProductID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// SetQty replaces a cart line's quantity. Zero or negative removes it.
func (h *Handler) SetQty(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Svc.SetQty(r.Context(), userID, productID, payload.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	h.Get(w, r)
}

// RemoveItem deletes a cart line.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	if err := h.Svc.RemoveItem(r.Context(), userID, productID); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"removed": true}})
}

// Clear removes all lines from the caller's cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Clear(r.Context(), userID); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"cleared": true}})
}

func (h *Handler) benefits(ctx context.Context, userID string) (loyalty.Benefits, error) {
	uid, err := toUUID(userID)
	if err != nil {
		return loyalty.Benefits{}, err
	}
	user, err := h.Users.GetUserByID(ctx, uid)
	if err != nil {
		return loyalty.Benefits{}, err
	}
	return loyalty.For(tier.Parse(user.Tier)), nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, pricing.ErrProductNotFound):
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "product not found", nil)
	case errors.Is(err, ErrOutOfStock):
		common.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", "product out of stock", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart operation failed", nil)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return "", false
	}
	return userID, true
}
