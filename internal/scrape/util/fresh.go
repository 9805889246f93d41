package util

import (
	"sort"
	"time"

	"github.com/shikkq/4eremsha/internal/domain"
)

// FreshOrLatest keeps posts published within days of now, newest first,
// at most n of them. When none qualify the newest post is returned alone,
// flagged Stale. Undated posts are never fresh.
func FreshOrLatest(posts []domain.Post, now time.Time, days, n int) []domain.Post {
	if len(posts) == 0 {
		return nil
	}
	sorted := make([]domain.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	var fresh []domain.Post
	for _, p := range sorted {
		if !p.PublishedAt.IsZero() && !p.PublishedAt.Before(cutoff) {
			fresh = append(fresh, p)
		}
		if n > 0 && len(fresh) == n {
			break
		}
	}
	if len(fresh) > 0 {
		return fresh
	}

	latest := sorted[0]
	latest.Stale = true
	return []domain.Post{latest}
}
