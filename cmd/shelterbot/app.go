package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/dedup"
	"github.com/shikkq/4eremsha/internal/logger"
	"github.com/shikkq/4eremsha/internal/metrics"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/scrape"
	"github.com/shikkq/4eremsha/internal/scrape/types"
	"github.com/shikkq/4eremsha/internal/scrape/util"
	"github.com/shikkq/4eremsha/internal/scrape/vk"
	"github.com/shikkq/4eremsha/internal/scrape/web"
	"github.com/shikkq/4eremsha/internal/secrets"
	"github.com/shikkq/4eremsha/internal/store"
)

// app holds what every command needs: config, logger and the open store.
type app struct {
	cfg     config.Config
	cfgPath string
	log     *zap.Logger
	db      *store.DB
	metrics *metrics.Metrics

	closers []func() error
}

func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if v := strings.TrimSpace(os.Getenv("SHELTERBOT_DATA_DIR")); v != "" {
		return v
	}
	return "."
}

// loadConfig bootstraps the data dir and reads the config with keychain
// tokens filled in.
func loadConfig() (config.Config, string, error) {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return config.Config{}, "", err
	}

	path := cfgFile
	if path == "" {
		p, err := config.EnsureUserConfig(dir)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("config bootstrap failed: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, path, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	return secrets.Resolve(cfg), path, nil
}

func newApp() (*app, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Path(cfg.Store.Path))
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{cfg: cfg, cfgPath: path, log: log, db: db, metrics: metrics.New()}
	a.closers = append(a.closers, db.Close)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// visitedBackend picks the dedup backend named in config.
func (a *app) visitedBackend(ctx context.Context) (dedup.Backend, error) {
	return openVisitedBackend(ctx, a.cfg, a.db, func(c func() error) { a.closers = append(a.closers, c) })
}

func openVisitedBackend(ctx context.Context, cfg config.Config, db *store.DB, onClose func(func() error)) (dedup.Backend, error) {
	switch strings.ToLower(cfg.Dedup.Backend) {
	case "", "sqlite":
		return db, nil
	case "file":
		return dedup.NewFileBackend(cfg.Path(cfg.Dedup.File)), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Dedup.RedisAddr,
			Password: cfg.Dedup.RedisPassword,
			DB:       cfg.Dedup.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Dedup.RedisAddr, err)
		}
		if onClose != nil {
			onClose(client.Close)
		}
		return dedup.NewRedisBackend(client, cfg.Dedup.RedisKey), nil
	default:
		return nil, fmt.Errorf("%w: %q", dedup.ErrUnknownBackend, cfg.Dedup.Backend)
	}
}

func (a *app) ttl() time.Duration {
	return time.Duration(a.cfg.Dedup.TTLDays) * 24 * time.Hour
}

// loadVisited opens the dedup cache and drops expired entries from storage.
func (a *app) loadVisited(ctx context.Context) (*dedup.Cache, error) {
	b, err := a.visitedBackend(ctx)
	if err != nil {
		return nil, err
	}
	c, err := dedup.Load(ctx, b, a.ttl())
	if err != nil {
		return nil, err
	}
	if n, err := c.Prune(ctx); err != nil {
		a.log.Warn("prune visited failed", zap.Error(err))
	} else if n > 0 {
		a.log.Info("pruned visited sources", zap.Int64("removed", n))
	}
	return c, nil
}

// fetchers returns the VK client as searcher and the post fetcher to use:
// the API when a token is set, else the mobile web wall when allowed.
func (a *app) fetchers() (*vk.Client, types.PostFetcher, error) {
	lim := util.NewHostLimiter(a.cfg.VK.RequestsPerSecond, a.cfg.VK.Burst)
	client := vk.New(a.cfg, lim, a.log)
	if a.cfg.VK.Token != "" {
		return client, client, nil
	}
	if !a.cfg.VK.WebFallback {
		return nil, nil, errNoToken
	}
	return client, web.New(a.cfg.VK.WebURL, a.cfg.Ingest.FreshDays, lim, a.log), nil
}

var errNoToken = errors.New("vk token is not configured: set VK_TOKEN or run `shelterbot secrets set vk`")

// newDriver wires the ingestion driver. Searching needs an API token even
// when posts come from the web fallback.
func (a *app) newDriver(ctx context.Context) (*scrape.Driver, error) {
	if a.cfg.VK.Token == "" {
		return nil, errNoToken
	}
	search, fetch, err := a.fetchers()
	if err != nil {
		return nil, err
	}
	visited, err := a.loadVisited(ctx)
	if err != nil {
		return nil, err
	}

	d := scrape.NewDriver(a.cfg, search, fetch, rank.NewScorer(a.cfg), a.db, visited, a.log)
	d.Avatars = store.NewAvatarCache(a.db, a.log)
	d.Metrics = a.metrics
	return d, nil
}
