package rank

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInfoOrder(t *testing.T) {
	s := newTestScorer()
	c, rej := s.Score(post(scenarioText, 3*24*time.Hour), "Новосибирск", now)
	require.Equal(t, Accepted, rej)

	info := FormatInfo(c, now)
	assert.True(t, strings.HasPrefix(info, "📅 Пост от 14.10.2026 (3 дн. назад)"))

	needs := strings.Index(info, "🆘 Что нужно (🔥 Срочно)")
	contacts := strings.Index(info, "📞 Контакты")
	addr := strings.Index(info, "📍 Адрес")
	require.True(t, needs > 0 && contacts > needs && addr > contacts, info)
	assert.Contains(t, info, "• +79161234567")
	assert.NotContains(t, info, incompleteNotice)
}

func TestFormatInfoDisclaimer(t *testing.T) {
	s := newTestScorer()
	c, _ := s.Score(post("Приют ищет волонтёров, звоните +79161234567", time.Hour), "", now)
	info := FormatInfo(c, now)
	assert.Contains(t, info, "(сегодня)")
	assert.NotContains(t, info, "📍 Адрес")
	assert.True(t, strings.HasSuffix(info, incompleteNotice))

	c.Post.PublishedAt = time.Time{}
	c.Extraction.Stale = true
	info = FormatInfo(c, now)
	assert.True(t, strings.HasPrefix(info, "📅 Дата поста неизвестна\n⏳"))
}

func TestDaysAgo(t *testing.T) {
	assert.Equal(t, "дата неизвестна", DaysAgo(time.Time{}, now))
	assert.Equal(t, "сегодня", DaysAgo(now.Add(-23*time.Hour), now))
	assert.Equal(t, "сегодня", DaysAgo(now.Add(time.Hour), now))
	assert.Equal(t, "5 дн. назад", DaysAgo(now.Add(-5*24*time.Hour-time.Minute), now))
}
