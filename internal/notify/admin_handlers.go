package notify

import (
	"context"
	"net/http"

	"github.com/hanbutik/backend-butik/internal/common"
)

// SweepScheduler requests an out-of-band abandoned-cart sweep.
type SweepScheduler interface {
	EnqueueSweep(ctx context.Context) error
}

// AdminHandler exposes operational endpoints for notifications.
type AdminHandler struct {
	Tasks SweepScheduler
}

// CheckAbandonedCarts enqueues an immediate sweep instead of waiting for the
// periodic task.
func (h AdminHandler) CheckAbandonedCarts(w http.ResponseWriter, r *http.Request) {
	if h.Tasks == nil {
		common.JSONError(w, http.StatusInternalServerError, "NOTIFY_NOT_CONFIGURED", "task queue not configured", nil)
		return
	}
	if err := h.Tasks.EnqueueSweep(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "ENQUEUE_FAILED", "could not enqueue sweep", nil)
		return
	}
	common.JSON(w, http.StatusAccepted, map[string]any{"data": map[string]any{"enqueued": true}})
}
