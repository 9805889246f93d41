package vk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/scrape/util"
)

type wallPost struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Date        int64  `json:"date"`
	Text        string `json:"text"`
	MarkedAsAds int    `json:"marked_as_ads"`
	CopyHistory []struct {
		Text string `json:"text"`
	} `json:"copy_history"`
}

// FetchPosts reads the owner's wall and applies the freshness window.
func (c *Client) FetchPosts(ctx context.Context, src domain.Source, n int) ([]domain.Post, error) {
	gid, err := strconv.ParseInt(strings.TrimPrefix(src.ID, "-"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("vk source id %q: %w", src.ID, err)
	}
	if n <= 0 {
		n = 10
	}

	var wall struct {
		Items []wallPost `json:"items"`
	}
	err = c.call(ctx, "wall.get", url.Values{
		"owner_id": {itoa(-gid)},
		"count":    {strconv.Itoa(n)},
		"filter":   {"owner"},
	}, &wall)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(wall.Items))
	for _, it := range wall.Items {
		if it.MarkedAsAds != 0 {
			continue
		}
		text := it.Text
		if strings.TrimSpace(text) == "" && len(it.CopyHistory) > 0 {
			text = it.CopyHistory[0].Text
		}
		p := domain.Post{
			ID:       itoa(it.ID),
			SourceID: src.ID,
			Text:     text,
			URL:      fmt.Sprintf("https://vk.com/wall-%d_%d", gid, it.ID),
		}
		if it.Date > 0 {
			p.PublishedAt = time.Unix(it.Date, 0).UTC()
		}
		posts = append(posts, p)
	}
	return util.FreshOrLatest(posts, c.now(), c.freshDays, n), nil
}
