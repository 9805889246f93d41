package httpapi

import (
	"net/http"
	"strings"

	"github.com/shikkq/4eremsha/internal/secrets"
)

type SecretsHandler struct {
	Set func(account, value string) error
}

type setTokenReq struct {
	Token string `json:"token"`
}

func (h SecretsHandler) SetVK(w http.ResponseWriter, r *http.Request) {
	h.setToken(w, r, secrets.AccountVK)
}

func (h SecretsHandler) SetTelegram(w http.ResponseWriter, r *http.Request) {
	h.setToken(w, r, secrets.AccountTelegram)
}

func (h SecretsHandler) setToken(w http.ResponseWriter, r *http.Request, account string) {
	var req setTokenReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	tok := strings.TrimSpace(req.Token)
	if tok == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_token", "token is required")
		return
	}

	set := h.Set
	if set == nil {
		set = secrets.Set
	}
	if err := set(account, tok); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
