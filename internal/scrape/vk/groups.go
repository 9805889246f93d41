package vk

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/scrape/util"
)

type group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ScreenName  string `json:"screen_name"`
	IsClosed    int    `json:"is_closed"`
	Description string `json:"description"`
	Activity    string `json:"activity"`
	Photo100    string `json:"photo_100"`
	City        *struct {
		Title string `json:"title"`
	} `json:"city"`
}

func (g group) source() domain.Source {
	id := itoa(g.ID)
	screen := g.ScreenName
	if screen == "" {
		screen = "club" + id
	}
	desc := util.HTMLToText(g.Description)
	if a := strings.TrimSpace(g.Activity); a != "" {
		desc = strings.TrimSpace(desc + "\n" + a)
	}
	s := domain.Source{
		ID:          id,
		ScreenName:  screen,
		Name:        util.CleanText(g.Name),
		Description: desc,
		URL:         "https://vk.com/" + screen,
		AvatarURL:   g.Photo100,
		Closed:      g.IsClosed != 0,
	}
	if g.City != nil {
		s.City = g.City.Title
	}
	return s
}

// SearchSources runs groups.search for "<keyword> <city>" and hydrates the
// hits with groups.getById. Closed groups are dropped since their walls
// cannot be read.
func (c *Client) SearchSources(ctx context.Context, keyword, city string, limit int) ([]domain.Source, error) {
	if limit <= 0 {
		limit = 20
	}
	q := strings.TrimSpace(keyword + " " + city)

	var found struct {
		Items []group `json:"items"`
	}
	err := c.call(ctx, "groups.search", url.Values{
		"q":     {q},
		"type":  {"group"},
		"count": {strconv.Itoa(limit)},
	}, &found)
	if err != nil {
		return nil, err
	}
	if len(found.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(found.Items))
	for _, g := range found.Items {
		ids = append(ids, itoa(g.ID))
	}
	groups, err := c.getByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Source, 0, len(groups))
	for _, g := range groups {
		s := g.source()
		if s.Closed {
			c.log.Debug("closed group", zap.String("source_id", s.ID), zap.String("name", s.Name))
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) getByID(ctx context.Context, ids []string) ([]group, error) {
	var raw json.RawMessage
	err := c.call(ctx, "groups.getById", url.Values{
		"group_ids": {strings.Join(ids, ",")},
		"fields":    {"description,activity,photo_100,city"},
	}, &raw)
	if err != nil {
		return nil, err
	}

	// Newer API versions wrap the list in {"groups": [...]}.
	var groups []group
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &groups)
	} else {
		var wrapped struct {
			Groups []group `json:"groups"`
		}
		err = json.Unmarshal(raw, &wrapped)
		groups = wrapped.Groups
	}
	return groups, err
}
