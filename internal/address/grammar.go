package address

import (
	"strings"

	"github.com/shikkq/4eremsha/internal/morph"
)

const (
	maxCityWords   = 3
	maxStreetWords = 3
)

type match struct {
	city, street, building string
	end                    int // token index after the match
}

func (m match) String() string {
	s := m.street + " " + m.building
	if m.city != "" {
		s = m.city + ", " + s
	}
	return s
}

// parser walks the token stream looking for [CITY] STREET BUILDING.
type parser struct {
	toks   []morph.Token
	cities [][]string // stem sequences of known city names
}

func (p *parser) all() []match {
	var out []match
	for i := 0; i < len(p.toks); {
		if m, ok := p.at(i); ok {
			out = append(out, m)
			i = m.end
			continue
		}
		i++
	}
	return out
}

func (p *parser) at(i int) (match, bool) {
	var m match
	j := i
	if city, next, ok := p.city(j); ok {
		m.city = city
		j = p.skipPunct(next, ",", ".")
	}
	street, next, ok := p.street(j)
	if !ok {
		return match{}, false
	}
	m.street = street
	j = p.skipPunct(next, ",", ".")
	building, next, ok := p.building(j)
	if !ok {
		return match{}, false
	}
	m.building = building
	m.end = next
	return m, true
}

func (p *parser) tok(i int) (morph.Token, bool) {
	if i < 0 || i >= len(p.toks) {
		return morph.Token{}, false
	}
	return p.toks[i], true
}

func (p *parser) skipPunct(i int, marks ...string) int {
	for {
		t, ok := p.tok(i)
		if !ok || t.Kind != morph.Punct {
			return i
		}
		hit := false
		for _, m := range marks {
			if t.Text == m {
				hit = true
				break
			}
		}
		if !hit {
			return i
		}
		i++
	}
}

// city matches a city marker followed by capitalized words, or a known city
// name on its own.
func (p *parser) city(i int) (string, int, bool) {
	t, ok := p.tok(i)
	if !ok || t.Kind != morph.Word {
		return "", i, false
	}
	if cityMarkers.has(t) {
		j := p.skipPunct(i+1, ".")
		var words []string
		for len(words) < maxCityWords {
			w, ok := p.tok(j)
			if !ok || w.Kind != morph.Word || !w.Capitalized() || streetMarkers.has(w) {
				break
			}
			words = append(words, w.Text)
			j++
		}
		if len(words) > 0 {
			return strings.Join(words, " "), j, true
		}
		return "", i, false
	}
	if !t.Capitalized() {
		return "", i, false
	}
	for _, stems := range p.cities {
		if p.stemsAt(i, stems) {
			parts := make([]string, len(stems))
			for k := range stems {
				parts[k] = p.toks[i+k].Text
			}
			return strings.Join(parts, " "), i + len(stems), true
		}
	}
	return "", i, false
}

func (p *parser) stemsAt(i int, stems []string) bool {
	if len(stems) == 0 {
		return false
	}
	for k, st := range stems {
		t, ok := p.tok(i + k)
		if !ok || t.Kind != morph.Word || morph.Stem(t.Text) != st {
			return false
		}
	}
	return true
}

// street matches "<marker> <name>" or "<Name> <marker>".
func (p *parser) street(i int) (string, int, bool) {
	t, ok := p.tok(i)
	if !ok {
		return "", i, false
	}
	if streetMarkers.has(t) {
		j := p.skipPunct(i+1, ".")
		var words []string
		if n, ok := p.tok(j); ok && n.Kind == morph.Number {
			// ordinal street names: "ул. 40 лет Победы", "3-я линия"
			if w, ok := p.tok(j + 1); ok && w.Kind == morph.Word && !houseMarkers.has(w) {
				words = append(words, n.Text)
				j++
			}
		}
		for len(words) < maxStreetWords {
			w, ok := p.tok(j)
			if !ok || w.Kind != morph.Word || houseMarkers.has(w) || cityMarkers.has(w) || streetMarkers.has(w) {
				break
			}
			words = append(words, w.Text)
			j++
		}
		if len(words) == 0 {
			return "", i, false
		}
		return strings.Join(words, " "), j, true
	}

	var words []string
	j := i
	for len(words) < 2 {
		w, ok := p.tok(j)
		if !ok || w.Kind != morph.Word || !w.Capitalized() || streetMarkers.has(w) {
			break
		}
		words = append(words, w.Text)
		j++
	}
	if len(words) == 0 {
		return "", i, false
	}
	if mk, ok := p.tok(j); ok && streetMarkers.has(mk) && len([]rune(mk.Norm)) > 3 {
		return strings.Join(words, " "), j + 1, true
	}
	return "", i, false
}

// building matches a house number, optionally after a house marker and
// optionally followed by a block ("корп. 2" becomes "к2"). A house marker may
// also introduce a non-numeric token.
func (p *parser) building(i int) (string, int, bool) {
	t, ok := p.tok(i)
	if !ok {
		return "", i, false
	}
	j := i
	marked := false
	if houseMarkers.has(t) {
		marked = true
		j = p.skipPunct(i+1, ".")
	}
	n, ok := p.tok(j)
	if !ok {
		return "", i, false
	}
	switch {
	case n.Kind == morph.Number:
	case marked && n.Kind == morph.Word:
	default:
		return "", i, false
	}
	value := n.Text
	j++

	k := p.skipPunct(j, ",")
	if b, ok := p.tok(k); ok && blockMarkers.has(b) {
		k = p.skipPunct(k+1, ".")
		if num, ok := p.tok(k); ok && num.Kind == morph.Number {
			value += "к" + num.Text
			j = k + 1
		}
	}
	return value, j, true
}
