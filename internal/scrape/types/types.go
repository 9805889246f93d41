package types

import (
	"context"

	"github.com/shikkq/4eremsha/internal/domain"
)

// Searcher finds candidate sources for a (keyword, city) query.
type Searcher interface {
	Name() string
	SearchSources(ctx context.Context, keyword, city string, limit int) ([]domain.Source, error)
}

// PostFetcher returns up to n recent posts of src: the fresh ones when any
// exist, otherwise the single newest post flagged Stale. An empty slice is
// a valid answer.
type PostFetcher interface {
	Name() string
	FetchPosts(ctx context.Context, src domain.Source, n int) ([]domain.Post, error)
}

type ScrapeStatus struct {
	RunID       string `json:"run_id"`
	LastRunAt   string `json:"last_run_at"`
	LastOkAt    string `json:"last_ok_at"`
	LastError   string `json:"last_error"`
	LastAdded   int    `json:"last_added"`
	LastSkipped int    `json:"last_skipped"`
	Running     bool   `json:"running"`
}
