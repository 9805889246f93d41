package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/zalando/go-keyring"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/dedup"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/scrape"
	"github.com/shikkq/4eremsha/internal/secrets"
	"github.com/shikkq/4eremsha/internal/store"
)

var now = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func sampleShelters() []store.Shelter {
	return []store.Shelter{
		{ShelterRecord: domain.ShelterRecord{
			ShelterID: "101",
			Name:      "Лапы",
			City:      "Новосибирск",
			SourceURL: "https://vk.com/lapy",
			PostURL:   "https://vk.com/wall-101_5",
			Info:      "Нужен корм",
			PostDate:  now.Add(-72 * time.Hour),
			Score:     9,
		}},
		{ShelterRecord: domain.ShelterRecord{
			ShelterID: "202",
			Name:      "Хвосты",
			City:      "Омск",
			SourceURL: "https://vk.com/tails",
			Score:     6,
		}},
	}
}

func TestWriteSheltersXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, writeSheltersXLSX(path, sampleShelters()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"shelter_id", "name", "city", "score", "post_date", "source_url", "post_url", "info"}, rows[0])
	assert.Equal(t, []string{"101", "Лапы", "Новосибирск", "9", "2026-10-14", "https://vk.com/lapy", "https://vk.com/wall-101_5", "Нужен корм"}, rows[1])
	assert.Equal(t, "", rows[2][4])
}

func TestRenderShelters(t *testing.T) {
	var buf bytes.Buffer
	renderShelters(&buf, sampleShelters(), now)
	out := buf.String()
	assert.Contains(t, out, "Лапы")
	assert.Contains(t, out, "3 дн. назад")
	assert.Contains(t, out, "дата неизвестна")
}

func TestRenderScore(t *testing.T) {
	cfg := config.Default()
	s := rank.NewScorer(cfg)
	text := "Срочно нужны корма для приюта, звоните +79161234567, г. Новосибирск, ул. Ленина 5"

	c, rej := s.Score(domain.Post{Text: text, PublishedAt: now.Add(-time.Hour)}, "Новосибирск", now)
	var buf bytes.Buffer
	renderScore(&buf, c, rej, cfg.Scoring.MinScore, now)
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, rank.SignalHelp)
	assert.Contains(t, out, "total (accepted)")
	assert.Contains(t, out, "9")
	assert.Contains(t, out, "ленина")

	buf.Reset()
	c, rej = s.Score(domain.Post{Text: "Продаю велосипед"}, "", now)
	renderScore(&buf, c, rej, cfg.Scoring.MinScore, now)
	assert.Equal(t, "rejected: no_keyword\n", buf.String())
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, scrape.Report{
		RunID:      "r1",
		StartedAt:  now,
		FinishedAt: now.Add(1500 * time.Millisecond),
		Sources:    4,
		Accepted:   2,
		CapReached: true,
	})
	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "cap reached")
}

func TestOpenVisitedBackend(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()

	db, err := store.Open(filepath.Join(cfg.App.DataDir, "s.db"))
	require.NoError(t, err)
	defer db.Close()

	b, err := openVisitedBackend(ctx, cfg, db, nil)
	require.NoError(t, err)
	assert.Same(t, db, b)

	cfg.Dedup.Backend = "file"
	b, err = openVisitedBackend(ctx, cfg, db, nil)
	require.NoError(t, err)
	assert.IsType(t, &dedup.FileBackend{}, b)

	mr := miniredis.RunT(t)
	cfg.Dedup.Backend = "redis"
	cfg.Dedup.RedisAddr = mr.Addr()
	var closers []func() error
	b, err = openVisitedBackend(ctx, cfg, db, func(c func() error) { closers = append(closers, c) })
	require.NoError(t, err)
	assert.IsType(t, &dedup.RedisBackend{}, b)
	require.Len(t, closers, 1)

	c := dedup.New(b, 0)
	c.MarkSeen("42")
	require.NoError(t, c.Save(ctx))
	loaded, err := dedup.Load(ctx, b, 0)
	require.NoError(t, err)
	assert.True(t, loaded.Seen("42"))
	require.NoError(t, closers[0]())

	cfg.Dedup.Backend = "etcd"
	_, err = openVisitedBackend(ctx, cfg, db, nil)
	assert.True(t, errors.Is(err, dedup.ErrUnknownBackend))
}

func TestKeyringAccount(t *testing.T) {
	acc, err := keyringAccount("VK")
	require.NoError(t, err)
	assert.Equal(t, secrets.AccountVK, acc)

	acc, err = keyringAccount("tg")
	require.NoError(t, err)
	assert.Equal(t, secrets.AccountTelegram, acc)

	_, err = keyringAccount("imap")
	assert.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()
	for _, path := range [][]string{
		{"serve"}, {"scan"}, {"score"},
		{"shelters", "list"}, {"shelters", "show"}, {"shelters", "export"},
		{"favorites", "add"}, {"favorites", "rm"}, {"favorites", "posts"}, {"favorites", "refresh"},
		{"secrets", "set"}, {"secrets", "delete"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestScoreCommandReadsStdin(t *testing.T) {
	keyring.MockInit()
	cfgFile = ""
	dataDir = t.TempDir()
	t.Cleanup(func() { dataDir = "" })

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(bytes.NewBufferString("Продаю велосипед"))
	root.SetArgs([]string{"score"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "rejected: no_keyword\n", out.String())
}
