package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	_, v := NormalizeAndValidate(cfg)
	return v.Err()
}

// SaveAtomic writes cfg next to path and renames it into place, keeping the
// previous file as path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

// Redacted returns a copy safe to show over the API.
func (c Config) Redacted() Config {
	out := c
	if out.VK.Token != "" {
		out.VK.Token = "***"
	}
	if out.Telegram.Token != "" {
		out.Telegram.Token = "***"
	}
	if out.Dedup.RedisPassword != "" {
		out.Dedup.RedisPassword = "***"
	}
	return out
}
