package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type LogConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
}

type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

type VKConfig struct {
	APIURL            string  `yaml:"api_url" json:"api_url"`
	Version           string  `yaml:"version" json:"version"`
	Token             string  `yaml:"token" json:"-"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries" json:"max_retries"`
	WebFallback       bool    `yaml:"web_fallback" json:"web_fallback"`
	WebURL            string  `yaml:"web_url" json:"web_url"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	APIURL  string `yaml:"api_url" json:"api_url"`
	Token   string `yaml:"token" json:"-"`
	ChatID  string `yaml:"chat_id" json:"chat_id"`
}

type IngestConfig struct {
	Cities         []string `yaml:"cities" json:"cities"`
	SearchLimit    int      `yaml:"search_limit" json:"search_limit"`
	PostsPerSource int      `yaml:"posts_per_source" json:"posts_per_source"`
	MaxNewSources  int      `yaml:"max_new_sources" json:"max_new_sources"`
	FreshDays      int      `yaml:"fresh_days" json:"fresh_days"`
	DelayMillis    int      `yaml:"delay_ms" json:"delay_ms"`
	LockFile       string   `yaml:"lock_file" json:"lock_file"`
}

type ScheduleConfig struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	Cron             string `yaml:"cron" json:"cron"`
	Timezone         string `yaml:"timezone" json:"timezone"`
	FavoritesMinutes int    `yaml:"favorites_minutes" json:"favorites_minutes"`
}

type DedupConfig struct {
	Backend       string `yaml:"backend" json:"backend"` // sqlite, file, redis
	File          string `yaml:"file" json:"file"`
	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"redis_password" json:"-"`
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	RedisKey      string `yaml:"redis_key" json:"redis_key"`
	TTLDays       int    `yaml:"ttl_days" json:"ttl_days"` // 0 keeps entries forever
}

type ScoringConfig struct {
	MinScore         int    `yaml:"min_score" json:"min_score"`
	StaleDays        int    `yaml:"stale_days" json:"stale_days"`
	StalePenalty     int    `yaml:"stale_penalty" json:"stale_penalty"`
	HelpPoints       int    `yaml:"help_points" json:"help_points"`
	ContactPoints    int    `yaml:"contact_points" json:"contact_points"`
	AddressPoints    int    `yaml:"address_points" json:"address_points"`
	TopicPoints      int    `yaml:"topic_points" json:"topic_points"`
	CityPoints       int    `yaml:"city_points" json:"city_points"`
	MaxNeedLines     int    `yaml:"max_need_lines" json:"max_need_lines"`
	ShortTextRunes   int    `yaml:"short_text_runes" json:"short_text_runes"`
	ShortTextPenalty int    `yaml:"short_text_penalty" json:"short_text_penalty"`
	TieBreak         string `yaml:"tie_break" json:"tie_break"` // first, last
}

type AddressConfig struct {
	Strategy    string `yaml:"strategy" json:"strategy"` // auto, grammar, window
	WindowChars int    `yaml:"window_chars" json:"window_chars"`
}

// Keywords are lower-case stems matched as substrings of folded text.
type Keywords struct {
	Relevance []string `yaml:"relevance" json:"relevance"`
	Inclusion []string `yaml:"inclusion" json:"inclusion"`
	Exclusion []string `yaml:"exclusion" json:"exclusion"`
	Help      []string `yaml:"help" json:"help"`
	Topic     []string `yaml:"topic" json:"topic"`
	Address   []string `yaml:"address" json:"address"`
	Urgent    []string `yaml:"urgent" json:"urgent"`
	NotUrgent []string `yaml:"not_urgent" json:"not_urgent"`
	Search    []string `yaml:"search" json:"search"`
}

type FavoritesConfig struct {
	WindowHours    int      `yaml:"window_hours" json:"window_hours"`
	PostsPerSource int      `yaml:"posts_per_source" json:"posts_per_source"`
	Keywords       []string `yaml:"keywords" json:"keywords"`
}

type Config struct {
	App       AppConfig       `yaml:"app" json:"app"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Store     StoreConfig     `yaml:"store" json:"store"`
	VK        VKConfig        `yaml:"vk" json:"vk"`
	Telegram  TelegramConfig  `yaml:"telegram" json:"telegram"`
	Ingest    IngestConfig    `yaml:"ingest" json:"ingest"`
	Schedule  ScheduleConfig  `yaml:"schedule" json:"schedule"`
	Dedup     DedupConfig     `yaml:"dedup" json:"dedup"`
	Scoring   ScoringConfig   `yaml:"scoring" json:"scoring"`
	Address   AddressConfig   `yaml:"address" json:"address"`
	Keywords  Keywords        `yaml:"keywords" json:"keywords"`
	Favorites FavoritesConfig `yaml:"favorites" json:"favorites"`
}

// Load reads path over the defaults, applies .env files and environment
// overrides, then normalizes. The result is not mutated afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	loadDotEnv(filepath.Dir(path))
	applyEnv(&cfg)

	cfg, v := NormalizeAndValidate(cfg)
	if !v.OK() {
		return cfg, v.Err()
	}
	return cfg, nil
}

// Path resolves p against the data dir unless it is absolute.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.App.DataDir, p)
}
