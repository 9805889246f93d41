// Package vk is a small client for the VK API methods the ingestion run
// needs: groups.search, groups.getById and wall.get.
package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/scrape/util"
)

var ErrRateLimited = errors.New("vk: rate limited")

// APIError is the error object VK returns inside a 200 response.
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

// Temporary reports whether the call may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.Code == 6 || e.Code == 10
}

// Terminal reports whether the source is private, blocked or deleted.
func (e *APIError) Terminal() bool {
	return e.Code == 15 || e.Code == 18 || e.Code == 30
}

type Client struct {
	apiURL     string
	version    string
	token      string
	maxRetries int
	freshDays  int

	hc      *http.Client
	lim     *util.HostLimiter
	log     *zap.Logger
	now     func() time.Time
	backoff func(attempt int) time.Duration
}

func New(cfg config.Config, lim *util.HostLimiter, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := time.Duration(cfg.VK.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiURL:     strings.TrimRight(cfg.VK.APIURL, "/"),
		version:    cfg.VK.Version,
		token:      cfg.VK.Token,
		maxRetries: cfg.VK.MaxRetries,
		freshDays:  cfg.Ingest.FreshDays,
		hc:         &http.Client{Timeout: timeout},
		lim:        lim,
		log:        log.Named("vk"),
		now:        time.Now,
		backoff: func(attempt int) time.Duration {
			return time.Duration(500<<attempt) * time.Millisecond
		},
	}
}

func (c *Client) Name() string { return "vk" }

type envelope struct {
	Response json.RawMessage `json:"response"`
	Error    *APIError       `json:"error"`
}

// call invokes method and decodes the response field into out. Temporary
// API errors and 5xx responses are retried with exponential backoff.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	params.Set("v", c.version)
	params.Set("access_token", c.token)
	endpoint := c.apiURL + "/" + method

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying", zap.String("method", method), zap.Int("attempt", attempt), zap.Error(lastErr))
			if err := util.Sleep(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}
		if err := c.lim.WaitURL(ctx, endpoint); err != nil {
			return err
		}

		retry, err := c.once(ctx, endpoint, params, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}

	var apiErr *APIError
	if errors.As(lastErr, &apiErr) && apiErr.Code == 6 {
		return fmt.Errorf("%s: %w: %v", method, ErrRateLimited, lastErr)
	}
	return fmt.Errorf("%s: %w", method, lastErr)
}

func (c *Client) once(ctx context.Context, endpoint string, params url.Values, out any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "shelterbot/1.0 (+local)")

	res, err := c.hc.Do(req)
	if err != nil {
		return ctx.Err() == nil, fmt.Errorf("vk request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return true, fmt.Errorf("vk status %d", res.StatusCode)
	}
	if res.StatusCode >= 400 {
		return false, fmt.Errorf("vk status %d", res.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return false, fmt.Errorf("vk decode: %w", err)
	}
	if env.Error != nil {
		return env.Error.Temporary(), env.Error
	}
	if err := json.Unmarshal(env.Response, out); err != nil {
		return false, fmt.Errorf("vk decode response: %w", err)
	}
	return false, nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
