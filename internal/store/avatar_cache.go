package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxAvatarBytes = 512 * 1024

func AvatarKeyFromURL(u string) string {
	h := sha256.Sum256([]byte(u))
	return hex.EncodeToString(h[:])
}

// VKAvatarHost reports whether host serves VK community pictures.
func VKAvatarHost(host string) bool {
	host = strings.ToLower(host)
	for _, suffix := range []string{".userapi.com", ".vk.com", ".vkuserphoto.ru"} {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return host == "vk.com"
}

// AvatarCache downloads community pictures into the avatars table so
// the UI never hotlinks VK.
type AvatarCache struct {
	DB        *DB
	Client    *http.Client
	AllowHost func(host string) bool
	Log       *zap.Logger
}

func NewAvatarCache(db *DB, log *zap.Logger) *AvatarCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &AvatarCache{
		DB:        db,
		Client:    &http.Client{Timeout: 15 * time.Second},
		AllowHost: VKAvatarHost,
		Log:       log.Named("avatar-cache"),
	}
}

// CacheFromURL returns the cache key for raw, fetching it when needed.
// Disallowed hosts and failed downloads yield an empty key and no error;
// only storage failures are returned.
func (a *AvatarCache) CacheFromURL(ctx context.Context, raw string) (key string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	pu, err := url.Parse(raw)
	if err != nil || pu.Scheme == "" || pu.Host == "" {
		return "", nil
	}
	if a.AllowHost != nil && !a.AllowHost(pu.Hostname()) {
		return "", nil
	}

	key = AvatarKeyFromURL(raw)

	// If already cached, skip fetch
	var exists int
	e := a.DB.Pool.QueryRowContext(ctx, `SELECT 1 FROM avatars WHERE key = ? LIMIT 1;`, key).Scan(&exists)
	if e == nil {
		return key, nil
	}
	if !errors.Is(e, sql.ErrNoRows) {
		return "", e
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return "", nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		a.Log.Warn("fetch failed", zap.String("url", raw), zap.Error(err))
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.Log.Warn("non-2xx", zap.String("url", raw), zap.String("status", resp.Status))
		return "", nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil || len(b) == 0 || len(b) > maxAvatarBytes {
		return "", nil
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "image/") {
		sn := http.DetectContentType(b)
		if !strings.HasPrefix(sn, "image/") {
			a.Log.Warn("not an image", zap.String("url", raw), zap.String("content_type", sn))
			return "", nil
		}
		ct = sn
	}

	_, err = a.DB.Pool.ExecContext(ctx, `
INSERT OR REPLACE INTO avatars(key, content_type, bytes, fetched_at)
VALUES(?,?,?,?);`,
		key,
		ct,
		b,
		formatTime(time.Now()),
	)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (d *DB) GetAvatar(ctx context.Context, key string) (contentType string, b []byte, err error) {
	err = d.Pool.QueryRowContext(ctx, `SELECT content_type, bytes FROM avatars WHERE key = ?;`, key).Scan(&contentType, &b)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	return contentType, b, err
}
