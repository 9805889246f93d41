// Package morph holds the text primitives shared by the extractors: case and
// Unicode folding, a small tokenizer and a Russian stemmer.
package morph

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s, composes it to NFC, drops invisible format runes
// (soft hyphens, zero-width spaces) and maps ё to е.
func Fold(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cf)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = cases.Lower(language.Russian).String(out)
	return strings.Map(yo, out)
}

// FoldRune is the rune-for-rune subset of Fold. It never changes the number
// of runes, so offsets computed on folded runes apply to the original.
func FoldRune(r rune) rune {
	return yo(unicode.ToLower(r))
}

// FoldRunes returns the NFC form of s as runes together with its folded
// counterpart of equal length.
func FoldRunes(s string) (orig, folded []rune) {
	orig = []rune(norm.NFC.String(s))
	folded = make([]rune, len(orig))
	for i, r := range orig {
		folded[i] = FoldRune(r)
	}
	return orig, folded
}

func yo(r rune) rune {
	if r == 'ё' {
		return 'е'
	}
	return r
}

// CollapseSpace trims s and replaces every whitespace run with one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
