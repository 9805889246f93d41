package morph

import (
	"strings"
	"unicode"
)

// abbreviations that end with a dot without ending the sentence.
var abbreviations = map[string]bool{
	"г": true, "гор": true, "ул": true, "д": true, "пр": true, "просп": true,
	"пер": true, "пл": true, "наб": true, "корп": true, "стр": true, "кв": true,
	"т": true, "тел": true, "др": true, "руб": true, "р": true, "мкр": true,
	"обл": true, "р-н": true, "им": true, "ш": true, "б-р": true, "бул": true,
}

// Sentences splits text on terminal punctuation and line breaks. A dot after
// a known abbreviation or before a lower-case letter or digit does not split.
func Sentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0
	flush := func(end int) {
		s := CollapseSpace(string(rs[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\n', '\r':
			flush(i + 1)
		case '!', '?', '…':
			j := i
			for j+1 < len(rs) && strings.ContainsRune("!?….", rs[j+1]) {
				j++
			}
			i = j
			flush(i + 1)
		case '.':
			if dotContinues(rs, i) {
				continue
			}
			flush(i + 1)
		}
	}
	flush(len(rs))
	return out
}

func dotContinues(rs []rune, i int) bool {
	j := i - 1
	for j >= 0 && (unicode.IsLetter(rs[j]) || rs[j] == '-') {
		j--
	}
	if prev := FoldRunesString(rs[j+1 : i]); abbreviations[prev] {
		return true
	}
	k := i + 1
	for k < len(rs) && rs[k] == ' ' {
		k++
	}
	if k >= len(rs) {
		return false
	}
	return k == i+1 || unicode.IsLower(rs[k]) || unicode.IsDigit(rs[k])
}

// FoldRunesString folds rs rune by rune.
func FoldRunesString(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteRune(FoldRune(r))
	}
	return b.String()
}
