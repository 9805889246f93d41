package dedup

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	data  map[string]time.Time
	fail  error
	saves int
}

func (m *memBackend) LoadVisited(ctx context.Context) (map[string]time.Time, error) {
	out := map[string]time.Time{}
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memBackend) SaveVisited(ctx context.Context, entries map[string]time.Time) error {
	m.saves++
	if m.fail != nil {
		return m.fail
	}
	if m.data == nil {
		m.data = map[string]time.Time{}
	}
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func TestMarkSeenThenSeen(t *testing.T) {
	c := New(nil, 0)
	assert.False(t, c.Seen("42"))
	c.MarkSeen("42")
	c.MarkSeen("")
	assert.True(t, c.Seen("42"))
	assert.Equal(t, 1, c.Len())
	assert.NoError(t, c.Save(context.Background()))
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "visited.json")

	c, err := Load(ctx, NewFileBackend(path), 0)
	require.NoError(t, err)
	for _, id := range []string{"3", "1", "2", "1"} {
		c.MarkSeen(id)
	}
	require.NoError(t, c.Save(ctx))
	assert.Zero(t, c.Pending())

	c.MarkSeen("4")
	require.NoError(t, c.Save(ctx))

	reloaded, err := Load(ctx, NewFileBackend(path), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, reloaded.IDs())
	assert.True(t, reloaded.Seen("2"))
	assert.False(t, reloaded.Seen("5"))
}

func TestFileBackendMissingFile(t *testing.T) {
	got, err := NewFileBackend(filepath.Join(t.TempDir(), "none.json")).LoadVisited(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{fail: errors.New("disk full")}
	c := New(b, 0)
	c.MarkSeen("a")

	err := c.Save(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, c.Pending())
	assert.True(t, c.Seen("a"), "membership survives a failed save")

	b.fail = nil
	require.NoError(t, c.Save(ctx))
	assert.Zero(t, c.Pending())
	assert.Contains(t, b.data, "a")

	require.NoError(t, c.Save(ctx))
	assert.Equal(t, 2, b.saves, "nothing pending means no backend call")
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 3, 0, 0, 0, time.UTC)
	b := &memBackend{data: map[string]time.Time{
		"old":   now.Add(-40 * 24 * time.Hour),
		"fresh": now.Add(-2 * 24 * time.Hour),
	}}

	c, err := load(ctx, b, 30*24*time.Hour, func() time.Time { return now })
	require.NoError(t, err)
	assert.False(t, c.Seen("old"))
	assert.True(t, c.Seen("fresh"))

	forever, err := load(ctx, b, 0, func() time.Time { return now })
	require.NoError(t, err)
	assert.True(t, forever.Seen("old"))
	assert.Equal(t, 2, forever.Len())
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := NewRedisBackend(client, "shelterbot:visited")
	c, err := Load(ctx, backend, 0)
	require.NoError(t, err)
	c.MarkSeen("100")
	c.MarkSeen("200")
	require.NoError(t, c.Save(ctx))

	assert.True(t, mr.Exists("shelterbot:visited"))
	reloaded, err := Load(ctx, backend, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, reloaded.IDs())

	mr.HSet("shelterbot:visited", "300", "1000")
	pruned, err := backend.PruneVisited(ctx, time.Unix(2000, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)
	left, err := backend.LoadVisited(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestRedisBackendError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.SetError("LOADING")

	_, err := Load(context.Background(), NewRedisBackend(client, "k"), 0)
	assert.Error(t, err)
}

func TestCachePruneWithoutSupport(t *testing.T) {
	n, err := New(&memBackend{}, time.Hour).Prune(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
