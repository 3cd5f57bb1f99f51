package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/invtrack/go-inventory-ledger/internal/dashboard"
	"github.com/invtrack/go-inventory-ledger/internal/redisx"
)

type DashboardHandler struct {
	Service  *dashboard.Service
	Redis    *redis.Client
	Sessions *Sessions
}

func (h *DashboardHandler) Register(r *chi.Mux) {
	r.With(h.Sessions.Middleware).Get("/api/dashboard", h.get)
}

func (h *DashboardHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := UserFrom(r.Context()).ID
	key := fmt.Sprintf(redisx.KeyDashboard, userID)

	// Short-TTL cache; the aggregate fans out into several queries.
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	ov, err := h.Service.Overview(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	b, err := json.Marshal(ov)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = h.Redis.Set(ctx, key, b, redisx.TTLDashboard).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
