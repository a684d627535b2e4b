package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"craneview/internal/services"
)

// HealthHandler reports service liveness and dataset state.
type HealthHandler struct {
	store     *services.DatasetStore
	version   string
	startedAt time.Time
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(store *services.DatasetStore, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		version:   version,
		startedAt: time.Now(),
	}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":         "healthy",
		"version":        h.version,
		"uptime":         time.Since(h.startedAt).String(),
		"dataset_loaded": h.store.Loaded(),
	}
	if ds := h.store.Get(); ds != nil {
		status["work_orders"] = ds.Len()
		status["loaded_at"] = ds.LoadedAt
	}
	render.JSON(w, r, status)
}

// Liveness handles GET /healthz for load balancer probes.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
