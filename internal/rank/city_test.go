package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityMentioned(t *testing.T) {
	cases := []struct {
		text, city string
		want       bool
	}{
		{"г. Новосибирск, ул. Ленина 5", "Новосибирск", true},
		{"приют в НОВОСИБИРСКЕ", "новосибирск", true},
		{"Новосибирцы, помогите", "Новосибирск", false},
		{"Приют Санкт-Петербурга ищет волонтёров", "Санкт-Петербург", true},
		{"Приют в СПб", "Санкт-Петербург", true},
		{"Волонтёры Нижнего Новгорода", "Нижний Новгород", true},
		{"Новгород и окрестности", "Нижний Новгород", false},
		{"Казань", "Москва", false},
		{"любой текст", "", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CityMentioned(tc.text, tc.city), "%s / %s", tc.text, tc.city)
	}
}
