package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/scrape"
)

type ScrapeHandler struct {
	BaseCtx context.Context
	Runs    RunController
	Log     *zap.Logger
}

type runReq struct {
	Cities []string `json:"cities"`
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runs.Status())
}

// Run starts a background ingestion pass and returns immediately. An empty
// body or empty cities list means the configured cities.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runReq
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if h.Runs.Status().Running {
		WriteError(w, r, http.StatusConflict, "run_in_progress", "a run is already in progress")
		return
	}

	base := h.BaseCtx
	if base == nil {
		base = context.Background()
	}
	reqID := RequestIDFrom(r.Context())
	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}

	go func() {
		_, err := h.Runs.RunOnce(base, reqID, req.Cities)
		switch {
		case errors.Is(err, scrape.ErrRunInProgress):
			log.Info("run skipped, another run is active", zap.String("request_id", reqID))
		case err != nil:
			log.Warn("run failed", zap.String("request_id", reqID), zap.Error(err))
		}
	}()

	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "request_id": reqID})
}
