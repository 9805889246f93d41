package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shikkq/4eremsha/internal/keywords"
)

var testKeywords = keywords.New([]string{"ул.", "улица", "проспект", "по адресу", "место встречи"})

func newTestRecognizer(s Strategy) *Recognizer {
	return NewRecognizer(s, 0, testKeywords, []string{"Новосибирск", "Нижний Новгород"})
}

func TestGrammarScenario(t *testing.T) {
	r := newTestRecognizer(StrategyAuto)
	got := r.Extract("Срочно нужны корма для приюта, звоните +79161234567, г. Новосибирск, ул. Ленина 5")
	require.Len(t, got, 1)
	assert.Equal(t, "Новосибирск, Ленина 5", got[0])
	assert.Contains(t, got[0], "Ленина")
}

func TestGrammarVariants(t *testing.T) {
	r := newTestRecognizer(StrategyGrammar)
	cases := map[string][]string{
		"Приезжайте на улицу Советская, д. 12а":                 {"Советская 12а"},
		"адрес: Красный проспект 100/1":                         {"Красный 100/1"},
		"Москва, пр-т Мира, дом 5, корп. 2":                     {"Мира 5к2"},
		"ждём по адресу г. Москва, пр-т Мира, дом 5, корп. 2":   {"Москва, Мира 5к2"},
		"Нижнем Новгороде, ул. 40 лет Победы 3":                 {"Нижнем Новгороде, 40 лет Победы 3"},
		"ул. Ленина 5 и ул. Гоголя 7, а также ул. Ленина 5":     {"Ленина 5", "Гоголя 7"},
		"Котики ищут дом, звоните":                              nil,
		"":                                                      nil,
	}
	for text, want := range cases {
		got := r.Extract(text)
		if want == nil {
			assert.Empty(t, got, text)
			continue
		}
		assert.Equal(t, want, got, text)
	}
}

func TestGrammarExcludesMarkers(t *testing.T) {
	r := newTestRecognizer(StrategyGrammar)
	for _, a := range r.Extract("г. Новосибирск, улица Ленина, дом 5") {
		for _, marker := range []string{"г.", "улица", "дом"} {
			assert.NotContains(t, a, marker)
		}
	}
}

func TestWindowFallback(t *testing.T) {
	r := newTestRecognizer(StrategyAuto)
	text := "Передержка находится по адресу: возле рынка, вход со двора. Приходите!"
	got := r.Extract(text)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "по адресу")
	assert.LessOrEqual(t, len([]rune(got[0])), DefaultWindow)
}

func TestWindowBounded(t *testing.T) {
	r := NewRecognizer(StrategyWindow, 40, testKeywords, nil)
	text := strings.Repeat("котики ", 30) + "место встречи у входа в парк " + strings.Repeat("собаки ", 30)
	got := r.Extract(text)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "место встречи")
	assert.LessOrEqual(t, len([]rune(got[0])), 40)
}

func TestWindowNoKeyword(t *testing.T) {
	r := newTestRecognizer(StrategyWindow)
	assert.Empty(t, r.Extract("ничего похожего на адрес"))
	assert.Empty(t, NewRecognizer(StrategyWindow, 0, nil, nil).Extract("ул. Ленина 5"))
}

func TestGrammarPreferredOverWindow(t *testing.T) {
	r := newTestRecognizer(StrategyAuto)
	got := r.Extract("Наш адрес: ул. Гоголя 7, место встречи у ворот")
	assert.Equal(t, []string{"Гоголя 7"}, got)
}
