package scrape

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/metrics"
	"github.com/shikkq/4eremsha/internal/scrape/types"
	"github.com/shikkq/4eremsha/internal/store"
)

type FavoritesStore interface {
	FavoriteSourceIDs(ctx context.Context) ([]string, error)
	GetShelter(ctx context.Context, id string) (store.Shelter, error)
	InsertFavoritePostIfNew(ctx context.Context, p domain.FavoritePost) (bool, error)
}

// FavoritesRefresher collects recent appeal posts of bookmarked shelters.
type FavoritesRefresher struct {
	Store   FavoritesStore
	Fetch   types.PostFetcher
	Metrics *metrics.Metrics

	window   time.Duration
	perGroup int
	keywords *keywords.Set
	log      *zap.Logger
	now      func() time.Time
}

func NewFavoritesRefresher(cfg config.Config, st FavoritesStore, fetch types.PostFetcher, log *zap.Logger) *FavoritesRefresher {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoritesRefresher{
		Store:    st,
		Fetch:    fetch,
		window:   time.Duration(cfg.Favorites.WindowHours) * time.Hour,
		perGroup: cfg.Favorites.PostsPerSource,
		keywords: keywords.New(cfg.Favorites.Keywords),
		log:      log.Named("favorites"),
		now:      time.Now,
	}
}

// Run returns how many new posts were stored. One failing shelter does not
// stop the others.
func (r *FavoritesRefresher) Run(ctx context.Context) (int, error) {
	ids, err := r.Store.FavoriteSourceIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("favorite sources: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	now := r.now()
	var added atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	for _, id := range ids {
		g.Go(func() error {
			n, err := r.refreshOne(gctx, id, now)
			added.Add(int64(n))
			if err != nil {
				r.Metrics.Error(metrics.StageFetch)
				r.log.Warn("refresh failed", zap.String("shelter_id", id), zap.Int("added", n), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	total := int(added.Load())
	r.log.Info("refresh finished", zap.Int("shelters", len(ids)), zap.Int("added", total))
	return total, ctx.Err()
}

func (r *FavoritesRefresher) refreshOne(ctx context.Context, id string, now time.Time) (int, error) {
	sh, err := r.Store.GetShelter(ctx, id)
	if err != nil {
		return 0, err
	}
	src := domain.Source{ID: sh.ShelterID, Name: sh.Name, URL: sh.SourceURL}
	posts, err := r.Fetch.FetchPosts(ctx, src, r.perGroup)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-r.window)
	n := 0
	for _, p := range posts {
		if p.Stale || p.URL == "" || p.PublishedAt.Before(cutoff) {
			continue
		}
		if !r.keywords.Contains(p.Text) {
			continue
		}
		ok, err := r.Store.InsertFavoritePostIfNew(ctx, domain.FavoritePost{
			ShelterID:   sh.ShelterID,
			PostURL:     p.URL,
			Text:        p.Text,
			PublishedAt: p.PublishedAt,
			FoundAt:     now,
		})
		if err != nil {
			return n, err
		}
		if ok {
			n++
			r.Metrics.FavoritePost()
		}
	}
	return n, nil
}
