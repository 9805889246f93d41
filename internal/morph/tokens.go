package morph

import (
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	Word Kind = iota
	Number
	Punct
)

type Token struct {
	Text  string
	Norm  string // Fold(Text)
	Kind  Kind
	Start int // byte offsets into the tokenized string
	End   int
}

// Capitalized reports whether the token starts with an upper-case letter.
func (t Token) Capitalized() bool {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return unicode.IsUpper(r)
}

func (t Token) IsPunct(s string) bool {
	return t.Kind == Punct && t.Text == s
}

// Tokenize splits s into words, numbers and single-rune punctuation.
// Words keep inner hyphens ("Санкт-Петербург", "пр-т"). Numbers keep letter,
// slash and dash suffixes ("5а", "12/3", "12к1", "1-я").
func Tokenize(s string) []Token {
	var out []Token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r) || unicode.Is(unicode.Cf, r):
			i += size
		case unicode.IsLetter(r):
			end := scanWord(s, i)
			out = append(out, newToken(s, i, end, Word))
			i = end
		case unicode.IsDigit(r):
			end := scanNumber(s, i)
			out = append(out, newToken(s, i, end, Number))
			i = end
		default:
			out = append(out, newToken(s, i, i+size, Punct))
			i += size
		}
	}
	return out
}

func newToken(s string, start, end int, k Kind) Token {
	text := s[start:end]
	return Token{Text: text, Norm: Fold(text), Kind: k, Start: start, End: end}
}

func scanWord(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) {
			i += size
			continue
		}
		if r == '-' && joinsNext(s, i+size) {
			i += size
			continue
		}
		break
	}
	return i
}

func scanNumber(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			i += size
			continue
		}
		if (r == '/' || r == '-') && joinsNext(s, i+size) {
			i += size
			continue
		}
		break
	}
	return i
}

func joinsNext(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
