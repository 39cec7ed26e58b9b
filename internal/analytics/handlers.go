package analytics

import (
	"net/http"

	"github.com/hanbutik/backend-butik/internal/common"
)

// Handler exposes analytics read endpoints for admins.
type Handler struct {
	Svc *Service
}

// Stats returns the dashboard overview aggregates.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_NOT_CONFIGURED", "analytics service not configured", nil)
		return
	}
	overview, err := h.Svc.Stats(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ANALYTICS_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": overview})
}
