package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lojatech/precifica/internal/storage/cache"
	"github.com/lojatech/precifica/internal/storage/db"
)

const healthCheckTimeout = 3 * time.Second

type healthHandler struct {
	db    db.HealthChecker
	cache cache.Store
}

func NewHealthHandler(dbChecker db.HealthChecker, cacheStore cache.Store) *healthHandler {
	return &healthHandler{db: dbChecker, cache: cacheStore}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *healthHandler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	if ok, err := h.db.IsHealthy(ctx); !ok || err != nil {
		resp.Checks["postgres"] = "down"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["postgres"] = "up"
	}

	if ok, err := h.cache.IsHealthy(ctx); !ok || err != nil {
		resp.Checks["redis"] = "down"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["redis"] = "up"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
