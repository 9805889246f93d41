package rank

import (
	"github.com/shikkq/4eremsha/internal/morph"
)

// colloquial names accepted for a city, keyed by the stemmed official name
var cityAliases = map[string][]string{
	"москв":           {"мск"},
	"санкт-петербург": {"спб", "питер", "петербург"},
	"екатеринбург":    {"екб"},
	"новосибирск":     {"нск"},
	"нижн новгород":   {"нн"},
}

// CityMentioned reports whether city occurs in text as whole words, allowing
// inflection ("в Новосибирске") and a preceding "г."/"город" marker.
func CityMentioned(text, city string) bool {
	want := morph.StemAll(city)
	if len(want) == 0 {
		return true
	}
	var words []string
	for _, t := range morph.Tokenize(text) {
		if t.Kind == morph.Punct {
			continue
		}
		words = append(words, morph.Stem(t.Text))
	}

	candidates := [][]string{want}
	for _, a := range cityAliases[joinStems(want)] {
		candidates = append(candidates, []string{morph.Stem(a)})
	}
	for _, c := range candidates {
		if containsSeq(words, c) {
			return true
		}
	}
	return false
}

func containsSeq(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		ok := true
		for k := range seq {
			if words[i+k] != seq[k] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func joinStems(stems []string) string {
	out := ""
	for i, s := range stems {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
