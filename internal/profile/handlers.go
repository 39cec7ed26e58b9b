package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbutik/backend-butik/internal/common"
)

// Handler exposes profile endpoints.
type Handler struct {
	Svc Service
}

// Me handles GET /api/v1/users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, common.CodeUnauthorized, "authentication required", nil)
		return
	}
	view, err := h.Svc.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// SetSpend handles POST /api/v1/admin/users/{userId}/spend. It exists so
// operators can correct loyalty state after refunds or imports.
func (h *Handler) SetSpend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TotalSpent *int64 `json:"totalSpent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.TotalSpent == nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "totalSpent is required", nil)
		return
	}
	view, err := h.Svc.OverrideSpend(r.Context(), chi.URLParam(r, "userId"), *payload.TotalSpent)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "user not found", nil)
		return
	}
	common.RenderError(w, err)
}
