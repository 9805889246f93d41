package httpapi

import (
	"net/http"

	"github.com/shikkq/4eremsha/internal/store"
)

type HealthHandler struct {
	DB *store.DB
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Pool.PingContext(r.Context()); err != nil {
			WriteError(w, r, http.StatusServiceUnavailable, "db_unavailable", err.Error())
			return
		}
	}
	writeJSON(w, map[string]any{
		"ok": true,
	})
}
