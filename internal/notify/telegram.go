// Package notify posts newly found shelters to a Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/card"
	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/scrape"
)

var ErrDisabled = errors.New("notify: telegram not configured")

type Telegram struct {
	apiURL string
	token  string
	chatID string
	hc     *http.Client
	log    *zap.Logger
	now    func() time.Time
}

func NewTelegram(cfg config.TelegramConfig, log *zap.Logger) (*Telegram, error) {
	if !cfg.Enabled || cfg.Token == "" || cfg.ChatID == "" {
		return nil, ErrDisabled
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Telegram{
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		token:  cfg.Token,
		chatID: cfg.ChatID,
		hc:     &http.Client{Timeout: 15 * time.Second},
		log:    log.Named("telegram"),
		now:    time.Now,
	}, nil
}

func (t *Telegram) NotifyShelter(ctx context.Context, a scrape.Accepted) error {
	text, err := card.Render(a.Record, t.now())
	if err != nil {
		return err
	}
	return t.Send(ctx, text)
}

type sendMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
}

func (t *Telegram) Send(ctx context.Context, html string) error {
	body, err := json.Marshal(sendMessage{
		ChatID:                t.chatID,
		Text:                  html,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL+"/bot"+t.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.hc.Do(req)
	if err != nil {
		// the token is part of the URL; keep it out of logs
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	defer res.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram decode (status %d): %w", res.StatusCode, err)
	}
	if !out.OK {
		return fmt.Errorf("telegram error %d: %s", out.ErrorCode, out.Description)
	}
	t.log.Debug("message sent", zap.String("chat_id", t.chatID))
	return nil
}
