package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shikkq/4eremsha/internal/domain"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shelters.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func shelter(id, city, name string) domain.ShelterRecord {
	return domain.ShelterRecord{
		ShelterID: id,
		Name:      name,
		SourceURL: "https://vk.com/club" + id,
		PostURL:   "https://vk.com/wall-" + id + "_1",
		City:      city,
		Info:      "Нужен корм. Тел. +7 913 123-45-67",
		PostDate:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Score:     7,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTest(t)
	require.NoError(t, Migrate(db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, 1, v)
}

func TestInsertShelterFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	added, err := db.InsertShelterIfNew(ctx, shelter("101", "Новосибирск", "Лапы"), "")
	require.NoError(t, err)
	assert.True(t, added)

	second := shelter("101", "Омск", "Другое имя")
	added, err = db.InsertShelterIfNew(ctx, second, "")
	require.NoError(t, err)
	assert.False(t, added)

	got, err := db.GetShelter(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, "Лапы", got.Name)
	assert.Equal(t, "Новосибирск", got.City)
	assert.Equal(t, 7, got.Score)
	assert.True(t, got.PostDate.Equal(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestInsertShelterRequiresID(t *testing.T) {
	db := openTest(t)
	_, err := db.InsertShelterIfNew(context.Background(), domain.ShelterRecord{}, "")
	assert.Error(t, err)
}

func TestGetShelterNotFound(t *testing.T) {
	db := openTest(t)
	_, err := db.GetShelter(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSheltersFilters(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	for _, r := range []domain.ShelterRecord{
		shelter("1", "Новосибирск", "Приют Лапы"),
		shelter("2", "Омск", "Хвосты"),
		shelter("3", "Новосибирск", "Верный друг"),
	} {
		_, err := db.InsertShelterIfNew(ctx, r, "")
		require.NoError(t, err)
	}

	all, err := db.ListShelters(ctx, ShelterFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	nsk, err := db.ListShelters(ctx, ShelterFilter{City: "Новосибирск"})
	require.NoError(t, err)
	assert.Len(t, nsk, 2)

	q, err := db.ListShelters(ctx, ShelterFilter{Query: "ЛАПЫ"})
	require.NoError(t, err)
	require.Len(t, q, 1)
	assert.Equal(t, "1", q[0].ShelterID)

	page, err := db.ListShelters(ctx, ShelterFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	n, err := db.CountShelters(ctx, "Омск")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = db.CountShelters(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestVisitedRoundTripAndPrune(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveVisited(ctx, map[string]time.Time{"1": old, "2": recent}))
	require.NoError(t, db.SaveVisited(ctx, map[string]time.Time{"1": recent}))

	got, err := db.LoadVisited(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got["1"].Equal(recent))

	require.NoError(t, db.SaveVisited(ctx, map[string]time.Time{"3": old}))
	n, err := db.PruneVisited(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = db.LoadVisited(ctx)
	require.NoError(t, err)
	assert.NotContains(t, got, "3")
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	_, err := db.AddFavorite(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.InsertShelterIfNew(ctx, shelter("7", "Омск", "Хвосты"), "")
	require.NoError(t, err)

	added, err := db.AddFavorite(ctx, "u1", "7")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = db.AddFavorite(ctx, "u1", "7")
	require.NoError(t, err)
	assert.False(t, added)

	favs, err := db.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "7", favs[0].ShelterID)

	ids, err := db.FavoriteSourceIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, ids)

	older := domain.FavoritePost{ShelterID: "7", PostURL: "https://vk.com/wall-7_1", Text: "старый", PublishedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.FavoritePost{ShelterID: "7", PostURL: "https://vk.com/wall-7_2", Text: "новый", PublishedAt: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)}
	for _, p := range []domain.FavoritePost{older, newer} {
		ok, err := db.InsertFavoritePostIfNew(ctx, p)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := db.InsertFavoritePostIfNew(ctx, older)
	require.NoError(t, err)
	assert.False(t, ok)

	posts, err := db.ListFavoritePosts(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "новый", posts[0].Text)

	posts, err = db.ListFavoritePosts(ctx, "u2", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, db.RemoveFavorite(ctx, "u1", "7"))
	assert.ErrorIs(t, db.RemoveFavorite(ctx, "u1", "7"), ErrNotFound)
}

func TestInsertShelterPropagatesDriverError(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	mock.ExpectExec("INSERT OR IGNORE INTO shelters").WillReturnError(errors.New("disk full"))

	db := &DB{Pool: pool}
	_, err = db.InsertShelterIfNew(context.Background(), shelter("1", "Омск", "x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveVisitedRollsBackOnError(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer pool.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO visited_sources")
	prep.ExpectExec().WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	db := &DB{Pool: pool}
	err = db.SaveVisited(context.Background(), map[string]time.Time{"1": time.Now()})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestAvatarCache(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/text" {
			_, _ = w.Write([]byte("hello"))
			return
		}
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	ac := NewAvatarCache(db, zaptest.NewLogger(t))
	ac.Client = srv.Client()
	ac.AllowHost = func(string) bool { return true }

	key, err := ac.CacheFromURL(ctx, srv.URL+"/a.png")
	require.NoError(t, err)
	require.NotEmpty(t, key)

	again, err := ac.CacheFromURL(ctx, srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, key, again)
	assert.Equal(t, 1, hits)

	ct, b, err := db.GetAvatar(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, pngBytes, b)

	key, err = ac.CacheFromURL(ctx, srv.URL+"/text")
	require.NoError(t, err)
	assert.Empty(t, key)

	_, _, err = db.GetAvatar(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvatarCacheRejectsForeignHosts(t *testing.T) {
	ac := NewAvatarCache(openTest(t), nil)
	key, err := ac.CacheFromURL(context.Background(), "https://example.com/a.png")
	require.NoError(t, err)
	assert.Empty(t, key)

	assert.True(t, VKAvatarHost("sun9-1.userapi.com"))
	assert.True(t, VKAvatarHost("pp.vk.com"))
	assert.False(t, VKAvatarHost("evilvk.com"))
}
