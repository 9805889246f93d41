package httpapi

import (
	"net/http"
	"strings"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/store"
)

type FavoritesHandler struct {
	DB *store.DB
}

type favoriteReq struct {
	UserID    string `json:"user_id"`
	ShelterID string `json:"shelter_id"`
}

func userParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("user_id"))
}

func (h FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := userParam(r)
	if user == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_user", "user_id is required")
		return
	}
	favs, err := h.DB.ListFavorites(r.Context(), user)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	writeJSON(w, favs)
}

func (h FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req favoriteReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.ShelterID = strings.TrimSpace(req.ShelterID)
	if req.UserID == "" || req.ShelterID == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_favorite", "user_id and shelter_id are required")
		return
	}

	added, err := h.DB.AddFavorite(r.Context(), req.UserID, req.ShelterID)
	if err != nil {
		writeStoreError(w, r, err, "shelter")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	WriteJSON(w, status, map[string]any{"added": added})
}

// DeleteByPath serves DELETE /favorites/{shelter_id}?user_id=.
func (h FavoritesHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/favorites/")
	user := userParam(r)
	if id == "" || user == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_favorite", "user_id and shelter id are required")
		return
	}

	if err := h.DB.RemoveFavorite(r.Context(), user, id); err != nil {
		writeStoreError(w, r, err, "favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Posts serves GET /favorites/posts?user_id=&limit=.
func (h FavoritesHandler) Posts(w http.ResponseWriter, r *http.Request) {
	user := userParam(r)
	if user == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_user", "user_id is required")
		return
	}
	posts, err := h.DB.ListFavoritePosts(r.Context(), user, queryInt(r, "limit", 50))
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if posts == nil {
		posts = []domain.FavoritePost{}
	}
	writeJSON(w, posts)
}
