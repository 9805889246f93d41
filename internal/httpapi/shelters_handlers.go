package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shikkq/4eremsha/internal/card"
	"github.com/shikkq/4eremsha/internal/store"
)

type SheltersHandler struct {
	DB  *store.DB
	Now func() time.Time
}

func (h SheltersHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// List serves GET /shelters?city=&q=&limit=&offset=.
func (h SheltersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ShelterFilter{
		City:   strings.TrimSpace(q.Get("city")),
		Query:  strings.TrimSpace(q.Get("q")),
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}

	items, err := h.DB.ListShelters(r.Context(), f)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	total, err := h.DB.CountShelters(r.Context(), f.City)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if items == nil {
		items = []store.Shelter{}
	}
	writeJSON(w, map[string]any{"items": items, "total": total})
}

// GetByPath serves GET /shelters/{id} with the rendered card.
func (h SheltersHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/shelters/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid shelter id")
		return
	}

	s, err := h.DB.GetShelter(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "shelter")
		return
	}

	html, err := card.Render(s.ShelterRecord, h.now())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"shelter": s, "card_html": html})
}

// AvatarByPath serves GET /avatars/{shelter_id} from the avatar cache.
func (h SheltersHandler) AvatarByPath(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/avatars/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	s, err := h.DB.GetShelter(r.Context(), id)
	if err != nil || s.AvatarKey == "" {
		http.NotFound(w, r)
		return
	}

	ct, b, err := h.DB.GetAvatar(r.Context(), s.AvatarKey)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
