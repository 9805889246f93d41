package scrape

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/store"
)

func TestFavoritesRefresher(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "shelters.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, id := range []string{"1", "2"} {
		_, err := db.InsertShelterIfNew(ctx, domain.ShelterRecord{ShelterID: id, Name: "Приют " + id, SourceURL: "https://vk.com/club" + id, City: "Омск", Info: "-"}, "")
		require.NoError(t, err)
		_, err = db.AddFavorite(ctx, "u1", id)
		require.NoError(t, err)
	}

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	fetch := &fakeFetcher{
		posts: map[string][]domain.Post{"1": {
			{ID: "a", URL: "https://vk.com/wall-1_1", PublishedAt: now.Add(-2 * time.Hour), Text: "Приходите гулять с собаками!"},
			{ID: "b", URL: "https://vk.com/wall-1_2", PublishedAt: now.Add(-3 * time.Hour), Text: "Фотоотчёт с праздника"},
			{ID: "c", URL: "https://vk.com/wall-1_3", PublishedAt: now.Add(-72 * time.Hour), Text: "Нужен корм"},
			{ID: "d", URL: "https://vk.com/wall-1_4", PublishedAt: now.Add(-time.Hour), Text: "Сбор на лекарства", Stale: true},
		}},
		errs: map[string]error{"2": errors.New("wall closed")},
	}

	r := NewFavoritesRefresher(config.Default(), db, fetch, nil)
	r.now = func() time.Time { return now }

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, fetch.calls["2"])

	n, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	posts, err := db.ListFavoritePosts(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "https://vk.com/wall-1_1", posts[0].PostURL)
}

func TestFavoritesRefresherNoFavorites(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "shelters.db"))
	require.NoError(t, err)
	defer db.Close()

	fetch := &fakeFetcher{}
	n, err := NewFavoritesRefresher(config.Default(), db, fetch, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fetch.calls)
}

// flakyFavorites lets the first limit inserts through, then fails.
type flakyFavorites struct {
	*store.DB

	mu    sync.Mutex
	limit int
}

func (f *flakyFavorites) InsertFavoritePostIfNew(ctx context.Context, p domain.FavoritePost) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limit == 0 {
		return false, errors.New("disk full")
	}
	f.limit--
	return f.DB.InsertFavoritePostIfNew(ctx, p)
}

func TestFavoritesRefresherCountsPartialInserts(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "shelters.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.InsertShelterIfNew(ctx, domain.ShelterRecord{ShelterID: "1", Name: "Приют 1", SourceURL: "https://vk.com/club1", City: "Омск", Info: "-"}, "")
	require.NoError(t, err)
	_, err = db.AddFavorite(ctx, "u1", "1")
	require.NoError(t, err)

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	fetch := &fakeFetcher{posts: map[string][]domain.Post{"1": {
		{ID: "a", URL: "https://vk.com/wall-1_1", PublishedAt: now.Add(-time.Hour), Text: "Нужен корм"},
		{ID: "b", URL: "https://vk.com/wall-1_2", PublishedAt: now.Add(-2 * time.Hour), Text: "Сбор на лекарства"},
		{ID: "c", URL: "https://vk.com/wall-1_3", PublishedAt: now.Add(-3 * time.Hour), Text: "Приходите гулять"},
	}}}

	r := NewFavoritesRefresher(config.Default(), &flakyFavorites{DB: db, limit: 1}, fetch, nil)
	r.now = func() time.Time { return now }

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	posts, err := db.ListFavoritePosts(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "https://vk.com/wall-1_1", posts[0].PostURL)
}
