package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/utils"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// LivenessHandler answers as long as the process is up.
func (h *HealthHandler) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ReadinessHandler additionally checks the store connection.
func (h *HealthHandler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			utils.JSON(w, http.StatusServiceUnavailable, models.Fail("store unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
