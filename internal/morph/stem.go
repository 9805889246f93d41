package morph

import (
	"unicode"

	"github.com/kljensen/snowball"
)

// Stem folds word and reduces it to its Russian stem. Words without Cyrillic
// letters are only folded.
func Stem(word string) string {
	w := Fold(word)
	if !hasCyrillic(w) {
		return w
	}
	st, err := snowball.Stem(w, "russian", true)
	if err != nil || st == "" {
		return w
	}
	return st
}

// StemAll stems every word of a phrase and returns the stems in order.
func StemAll(phrase string) []string {
	var out []string
	for _, t := range Tokenize(phrase) {
		if t.Kind == Punct {
			continue
		}
		out = append(out, Stem(t.Text))
	}
	return out
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
