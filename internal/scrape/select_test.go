package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/rank"
)

func cand(id string, score int) rank.Candidate {
	return rank.Candidate{Post: domain.Post{ID: id}, Score: score}
}

func TestSelectBestFirstEncounteredMaxWins(t *testing.T) {
	cands := []rank.Candidate{cand("a", 4), cand("b", 6)}
	best, out := SelectBest(cands, TieFirst, 5)
	assert.Equal(t, Selected, out)
	assert.Equal(t, "b", best.Post.ID)

	cands = append(cands, cand("c", 6))
	best, out = SelectBest(cands, TieFirst, 5)
	assert.Equal(t, Selected, out)
	assert.Equal(t, "b", best.Post.ID)
}

func TestSelectBestLastPolicy(t *testing.T) {
	best, _ := SelectBest([]rank.Candidate{cand("a", 4), cand("b", 6), cand("c", 6)}, TieLast, 5)
	assert.Equal(t, "c", best.Post.ID)
}

func TestSelectBestThreshold(t *testing.T) {
	best, out := SelectBest([]rank.Candidate{cand("a", 4), cand("b", 2)}, TieFirst, 5)
	assert.Equal(t, InsufficientConfidence, out)
	assert.Equal(t, "a", best.Post.ID)

	_, out = SelectBest([]rank.Candidate{cand("a", 5)}, TieFirst, 5)
	assert.Equal(t, Selected, out)

	_, out = SelectBest(nil, TieFirst, 5)
	assert.Equal(t, NoCandidate, out)
	assert.Equal(t, "no_keyword", out.String())
}

func TestSelectBestNegativeScores(t *testing.T) {
	best, out := SelectBest([]rank.Candidate{cand("a", -3), cand("b", -1)}, TieFirst, -5)
	assert.Equal(t, Selected, out)
	assert.Equal(t, "b", best.Post.ID)
}

func TestBestPostSkipsGatedPosts(t *testing.T) {
	s := rank.NewScorer(config.Default())
	now := time.Now()
	posts := []domain.Post{
		{ID: "ad", PublishedAt: now, Text: "Продажа кормов, доставка, скидки!"},
		{ID: "ok", PublishedAt: now, Text: scenarioText},
	}
	best, out := BestPost(s, posts, "Новосибирск", now, TieFirst, 5)
	assert.Equal(t, Selected, out)
	assert.Equal(t, "ok", best.Post.ID)

	_, out = BestPost(s, posts[:1], "Новосибирск", now, TieFirst, 5)
	assert.Equal(t, NoCandidate, out)
}

func TestSourceFilter(t *testing.T) {
	f := NewSourceFilter(config.Default().Keywords)

	cases := []struct {
		name, desc string
		keep       bool
		reason     string
	}{
		{"Приют «Лапы»", "Помогаем бездомным животным", true, ""},
		{"Котики", "Волонтёры передержки", true, ""},
		{"Зоомагазин Барбос", "Корма для животных с доставкой", false, "excluded:магазин"},
		{"Клуб любителей", "встречи по пятницам", false, ReasonNoInclusion},
		{"", "", false, ReasonNoInclusion},
		{"Приют «Хвостики»", "Мы хотели бы найти дом каждой кошке", true, ""},
		{"Муниципальный питомник для собак", "Принимаем бездомных собак, ищем хозяев", true, ""},
		{"Приют Дружок", "Акция: собираем корм для приюта", true, ""},
		{"Приют Верность", "Сбор на ремонт вольеров", true, ""},
		{"Волонтёры Омска", "Сбор одежды и пледов для подстилок", true, ""},
	}
	for _, tc := range cases {
		keep, reason := f.Relevant(tc.name, tc.desc)
		assert.Equal(t, tc.keep, keep, tc.name)
		assert.Equal(t, tc.reason, reason, tc.name)
	}
}
