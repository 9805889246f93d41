package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env and .env.local from dir and the working directory.
// Missing files are fine; variables already set in the process win.
func loadDotEnv(dir string) {
	var files []string
	for _, d := range []string{dir, "."} {
		for _, name := range []string{".env", ".env.local"} {
			p := filepath.Join(d, name)
			if _, err := os.Stat(p); err == nil {
				files = append(files, p)
			}
		}
	}
	if len(files) > 0 {
		_ = godotenv.Load(files...)
	}
}

func applyEnv(cfg *Config) {
	if v := env("SHELTERBOT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	}
	if v := env("SHELTERBOT_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := env("SHELTERBOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("SHELTERBOT_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := env("SHELTERBOT_CITIES"); v != "" {
		cfg.Ingest.Cities = splitList(v)
	}
	if v := env("SHELTERBOT_DEDUP_BACKEND"); v != "" {
		cfg.Dedup.Backend = v
	}
	if v := env("REDIS_ADDR"); v != "" {
		cfg.Dedup.RedisAddr = v
	}
	if v := env("REDIS_PASSWORD"); v != "" {
		cfg.Dedup.RedisPassword = v
	}
	if v := env("VK_TOKEN"); v != "" {
		cfg.VK.Token = v
	}
	if v := env("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := env("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
		cfg.Telegram.Enabled = true
	}
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// splitList turns a comma separated value into a trimmed list.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
