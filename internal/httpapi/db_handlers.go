package httpapi

import (
	"net"
	"net/http"

	"github.com/shikkq/4eremsha/internal/store"
)

type DBHandler struct {
	DB *store.DB
}

func isLoopback(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "checkpoint is only allowed from localhost")
		return
	}

	res, err := h.DB.Checkpoint(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	writeJSON(w, res)
}
