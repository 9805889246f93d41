package httpapi

import (
	"net/http"

	"github.com/shikkq/4eremsha/internal/config"
)

// ConfigHandler exposes the loaded config. Edits go through the YAML file
// and a restart, so there is no PUT.
type ConfigHandler struct {
	Cfg config.Config
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Cfg.Redacted())
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.Cfg)
	writeJSON(w, vr)
}
