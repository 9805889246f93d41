package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	_, v := NormalizeAndValidate(Default())
	assert.True(t, v.OK(), v.Errors)
	assert.NoError(t, Validate(Default()))
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9000
ingest:
  cities: [" Томск ", "томск", "Омск"]
scoring:
  min_score: 6
  tie_break: LAST
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, []string{"Томск", "Омск"}, cfg.Ingest.Cities)
	assert.Equal(t, 6, cfg.Scoring.MinScore)
	assert.Equal(t, "last", cfg.Scoring.TieBreak)
	assert.Equal(t, -3, cfg.Scoring.StalePenalty, "untouched fields keep defaults")
	assert.NotEmpty(t, cfg.Keywords.Relevance)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHELTERBOT_PORT", "9100")
	t.Setenv("SHELTERBOT_CITIES", "Казань, Уфа,")
	t.Setenv("VK_TOKEN", "vk-secret")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.App.Port)
	assert.Equal(t, []string{"Казань", "Уфа"}, cfg.Ingest.Cities)
	assert.Equal(t, "vk-secret", cfg.VK.Token)
	assert.True(t, cfg.Telegram.Enabled)

	red := cfg.Redacted()
	assert.Equal(t, "***", red.VK.Token)
	assert.Equal(t, "vk-secret", cfg.VK.Token, "Redacted must not touch the original")
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 9200\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SHELTERBOT_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SHELTERBOT_LOG_LEVEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidationCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Keywords.Relevance = []string{" "}
	cfg.Scoring.TieBreak = "random"
	cfg.Dedup.Backend = "redis"
	cfg.Schedule.Cron = "not a cron"

	_, v := NormalizeAndValidate(cfg)
	require.False(t, v.OK())
	assert.Len(t, v.Errors, 5)
	assert.ErrorContains(t, v.Err(), "app.port")
	assert.ErrorContains(t, v.Err(), "dedup.redis_addr")
}

func TestValidationWarnsOnConflicts(t *testing.T) {
	cfg := Default()
	cfg.Keywords.Exclusion = append(cfg.Keywords.Exclusion, "приют")
	_, v := NormalizeAndValidate(cfg)
	assert.True(t, v.OK())
	assert.Contains(t, v.Warnings, `keyword appears in both inclusion and exclusion: "приют"`)
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yml")
	cfg := Default()
	cfg.Ingest.MaxNewSources = 3
	require.NoError(t, SaveAtomic(path, cfg))
	require.NoError(t, SaveAtomic(path, cfg))
	assert.FileExists(t, path+".bak")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Ingest.MaxNewSources)

	bad := Default()
	bad.Ingest.PostsPerSource = 0
	assert.Error(t, SaveAtomic(path, bad))
}

func TestEnsureUserConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.FileExists(t, p)

	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.App.DataDir)
	assert.Equal(t, filepath.Join(dir, "shelters.db"), cfg.Path(cfg.Store.Path))
}
