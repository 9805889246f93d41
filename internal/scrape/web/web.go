// Package web reads community walls from the mobile site when no API
// token is configured.
package web

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/scrape/util"
)

var postIDRe = regexp.MustCompile(`wall(-?\d+)_(\d+)`)

type Fetcher struct {
	baseURL   string
	freshDays int
	hc        *http.Client
	lim       *util.HostLimiter
	log       *zap.Logger
	now       func() time.Time
}

func New(baseURL string, freshDays int, lim *util.HostLimiter, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		freshDays: freshDays,
		hc:        &http.Client{Timeout: 20 * time.Second},
		lim:       lim,
		log:       log.Named("web"),
		now:       time.Now,
	}
}

func (f *Fetcher) Name() string { return "web" }

func (f *Fetcher) FetchPosts(ctx context.Context, src domain.Source, n int) ([]domain.Post, error) {
	name := src.ScreenName
	if name == "" {
		name = screenName(src.URL)
	}
	if name == "" {
		name = "club" + strings.TrimPrefix(src.ID, "-")
	}
	wallURL := f.baseURL + "/" + name

	if err := f.lim.WaitURL(ctx, wallURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wallURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Linux; Android 13) shelterbot/1.0")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web get wall: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("web wall status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("web parse wall html: %w", err)
	}

	now := f.now()
	var posts []domain.Post
	doc.Find(".wall_item").Each(func(_ int, item *goquery.Selection) {
		if item.Find(".wall_marked_as_ads").Length() > 0 {
			return
		}
		textSel := item.Find(".pi_text").First()
		html, _ := textSel.Html()
		p := domain.Post{
			SourceID: src.ID,
			Text:     util.HTMLToText(html),
		}

		dateSel := item.Find(".wi_date").First()
		if t, ok := ParseDate(dateSel.Text(), now); ok {
			p.PublishedAt = t
		}
		href, _ := dateSel.Attr("href")
		if href == "" {
			href, _ = item.Find("a.post__anchor, a[href*='wall']").First().Attr("href")
		}
		if m := postIDRe.FindStringSubmatch(href); m != nil {
			p.ID = m[2]
			p.URL = fmt.Sprintf("https://vk.com/wall%s_%s", m[1], m[2])
		}
		if p.ID == "" && strings.TrimSpace(p.Text) == "" {
			return
		}
		posts = append(posts, p)
	})

	f.log.Debug("wall parsed", zap.String("source_id", src.ID), zap.Int("posts", len(posts)))
	return util.FreshOrLatest(posts, now, f.freshDays, n), nil
}
