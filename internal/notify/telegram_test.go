package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/scrape"
)

func newTestTelegram(t *testing.T, h http.HandlerFunc) *Telegram {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	tg, err := NewTelegram(config.TelegramConfig{Enabled: true, APIURL: srv.URL, Token: "123:abc", ChatID: "-100500"}, nil)
	require.NoError(t, err)
	tg.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return tg
}

func TestNewTelegramDisabled(t *testing.T) {
	_, err := NewTelegram(config.TelegramConfig{Enabled: true, Token: "x"}, nil)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewTelegram(config.TelegramConfig{Token: "x", ChatID: "1"}, nil)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNotifyShelter(t *testing.T) {
	var got sendMessage
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	})

	err := tg.NotifyShelter(context.Background(), scrape.Accepted{Record: domain.ShelterRecord{
		ShelterID: "42", Name: "Приют Лапы", City: "Омск", SourceURL: "https://vk.com/lapy", Info: "📅 Дата поста неизвестна",
	}})
	require.NoError(t, err)
	assert.Equal(t, "-100500", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "<b>Приют Лапы</b>")
}

func TestSendReportsAPIError(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	})
	err := tg.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
