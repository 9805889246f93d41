package httpapi

import "net/http"

// NewMux wires every route; main wraps it with middleware.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{DB: d.DB}.Health,
	}))

	// Shelters
	sh := SheltersHandler{DB: d.DB, Now: d.Now}
	mux.HandleFunc("/shelters", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.List,
	}))
	mux.HandleFunc("/shelters/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.GetByPath, // expects /shelters/{id}
	}))
	mux.HandleFunc("/avatars/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.AvatarByPath, // expects /avatars/{shelter_id}
	}))

	// Diagnostics
	sc := ScoreHandler{Scorer: d.Scorer, Cfg: d.Cfg, Now: d.Now}
	mux.HandleFunc("/score", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sc.Score,
	}))

	// Config (read only)
	ch := ConfigHandler{Cfg: d.Cfg}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sec := SecretsHandler{Set: d.SetSecret}
	mux.HandleFunc("/secrets/vk", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sec.SetVK,
	}))
	mux.HandleFunc("/secrets/telegram", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sec.SetTelegram,
	}))

	// Scrape
	sch := ScrapeHandler{BaseCtx: d.BaseCtx, Runs: d.Runs, Log: d.Log}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	// Favorites
	fh := FavoritesHandler{DB: d.DB}
	mux.HandleFunc("/favorites", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  fh.List,
		http.MethodPost: fh.Add,
	}))
	mux.HandleFunc("/favorites/posts", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: fh.Posts,
	}))
	mux.HandleFunc("/favorites/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: fh.DeleteByPath, // expects /favorites/{shelter_id}?user_id=
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// DB maintenance
	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	mux.Handle("/metrics", d.Metrics.Handler())

	return mux
}
