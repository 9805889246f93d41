package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	errs := make([]error, 0, len(v.Errors))
	for _, e := range v.Errors {
		errs = append(errs, errors.New(e))
	}
	return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
}

// NormalizeAndValidate returns a copy with trimmed, deduplicated lists and
// the problems found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	kw := &out.Keywords
	for _, l := range []*[]string{
		&kw.Relevance, &kw.Inclusion, &kw.Exclusion, &kw.Help, &kw.Topic,
		&kw.Address, &kw.Urgent, &kw.NotUrgent, &kw.Search,
		&out.Ingest.Cities, &out.Favorites.Keywords,
	} {
		*l = trimList(*l)
	}
	out.Dedup.Backend = strings.ToLower(strings.TrimSpace(out.Dedup.Backend))
	out.Scoring.TieBreak = strings.ToLower(strings.TrimSpace(out.Scoring.TieBreak))
	out.Address.Strategy = strings.ToLower(strings.TrimSpace(out.Address.Strategy))

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if len(kw.Relevance) == 0 {
		res.addErr("keywords.relevance must not be empty: every post would be rejected")
	}
	if len(kw.Inclusion) == 0 {
		res.addErr("keywords.inclusion must not be empty: every source would be rejected")
	}
	if len(kw.Help) == 0 {
		res.addWarn("keywords.help is empty; no post can earn the help bonus.")
	}
	if len(kw.Search) == 0 {
		res.addErr("keywords.search must have at least one query")
	}
	if len(out.Ingest.Cities) == 0 {
		res.addErr("ingest.cities must have at least one city")
	}

	if out.Ingest.PostsPerSource < 1 || out.Ingest.PostsPerSource > 100 {
		res.addErr("ingest.posts_per_source must be 1..100")
	}
	if out.Ingest.MaxNewSources < 1 {
		res.addErr("ingest.max_new_sources must be > 0")
	}
	if out.Ingest.SearchLimit < 1 || out.Ingest.SearchLimit > 1000 {
		res.addErr("ingest.search_limit must be 1..1000")
	}
	if out.Ingest.FreshDays < 1 {
		res.addErr("ingest.fresh_days must be > 0")
	}
	if out.Ingest.DelayMillis < 0 {
		res.addErr("ingest.delay_ms must be >= 0")
	}

	if out.Scoring.StalePenalty > 0 {
		res.addErr("scoring.stale_penalty must be <= 0")
	}
	if out.Scoring.ShortTextPenalty > 0 {
		res.addErr("scoring.short_text_penalty must be <= 0")
	}
	for name, v := range map[string]int{
		"help_points":    out.Scoring.HelpPoints,
		"contact_points": out.Scoring.ContactPoints,
		"address_points": out.Scoring.AddressPoints,
		"topic_points":   out.Scoring.TopicPoints,
		"city_points":    out.Scoring.CityPoints,
	} {
		if v < 0 {
			res.addErr("scoring.%s must be >= 0", name)
		}
	}
	if out.Scoring.MaxNeedLines < 0 {
		res.addErr("scoring.max_need_lines must be >= 0")
	}
	switch out.Scoring.TieBreak {
	case "first", "last":
	default:
		res.addErr("scoring.tie_break must be first or last, got %q", out.Scoring.TieBreak)
	}

	switch out.Address.Strategy {
	case "auto", "grammar", "window":
	default:
		res.addErr("address.strategy must be auto, grammar or window, got %q", out.Address.Strategy)
	}

	switch out.Dedup.Backend {
	case "sqlite", "file":
	case "redis":
		if strings.TrimSpace(out.Dedup.RedisAddr) == "" {
			res.addErr("dedup.redis_addr is required when dedup.backend=redis")
		}
	default:
		res.addErr("dedup.backend must be sqlite, file or redis, got %q", out.Dedup.Backend)
	}
	if out.Dedup.TTLDays < 0 {
		res.addErr("dedup.ttl_days must be >= 0")
	}

	if out.Schedule.Enabled {
		if _, err := cron.ParseStandard(out.Schedule.Cron); err != nil {
			res.addErr("schedule.cron %q: %v", out.Schedule.Cron, err)
		}
	}
	if out.Schedule.FavoritesMinutes < 0 {
		res.addErr("schedule.favorites_minutes must be >= 0")
	} else if out.Schedule.FavoritesMinutes > 0 && out.Schedule.FavoritesMinutes < 5 {
		res.addWarn("schedule.favorites_minutes is very low (%d) and may hit VK rate limits.", out.Schedule.FavoritesMinutes)
	}

	if out.VK.RequestsPerSecond <= 0 {
		res.addErr("vk.requests_per_second must be > 0")
	} else if out.VK.RequestsPerSecond > 3 {
		res.addWarn("vk.requests_per_second=%.1f exceeds the VK limit of 3 for user tokens.", out.VK.RequestsPerSecond)
	}
	if out.Telegram.Enabled && strings.TrimSpace(out.Telegram.ChatID) == "" {
		res.addErr("telegram.chat_id is required when telegram.enabled=true")
	}

	// simple conflict check
	exclusion := map[string]bool{}
	for _, b := range kw.Exclusion {
		exclusion[strings.ToLower(b)] = true
	}
	for _, a := range kw.Inclusion {
		if exclusion[strings.ToLower(a)] {
			res.addWarn("keyword appears in both inclusion and exclusion: %q", a)
		}
	}

	return out, res
}
