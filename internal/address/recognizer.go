// Package address finds postal-address-like mentions in post text.
package address

import (
	"strings"
	"unicode/utf8"

	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/morph"
)

type Strategy string

const (
	// StrategyAuto runs the grammar and falls back to the keyword window
	// only when the grammar finds nothing.
	StrategyAuto    Strategy = "auto"
	StrategyGrammar Strategy = "grammar"
	StrategyWindow  Strategy = "window"
)

const DefaultWindow = 300

type Recognizer struct {
	strategy Strategy
	window   int
	keywords *keywords.Set
	cities   [][]string
}

// NewRecognizer builds a recognizer. kw holds the keyword-window triggers;
// cities are names accepted as the city part without a "г." marker.
func NewRecognizer(strategy Strategy, window int, kw *keywords.Set, cities []string) *Recognizer {
	if strategy == "" {
		strategy = StrategyAuto
	}
	if window <= 0 {
		window = DefaultWindow
	}
	r := &Recognizer{strategy: strategy, window: window, keywords: kw}
	for _, c := range cities {
		if stems := morph.StemAll(c); len(stems) > 0 {
			r.cities = append(r.cities, stems)
		}
	}
	return r
}

// Extract returns deduplicated address candidates, never nil on a match and
// empty when nothing looks like an address.
func (r *Recognizer) Extract(text string) []string {
	switch r.strategy {
	case StrategyGrammar:
		return r.Grammar(text)
	case StrategyWindow:
		return r.Window(text)
	default:
		if out := r.Grammar(text); len(out) > 0 {
			return out
		}
		return r.Window(text)
	}
}

// Grammar returns every non-overlapping [CITY] STREET BUILDING match with the
// marker words ("г.", "ул.", "д.") left out.
func (r *Recognizer) Grammar(text string) []string {
	p := parser{toks: morph.Tokenize(text), cities: r.cities}
	var out []string
	seen := map[string]bool{}
	for _, m := range p.all() {
		s := m.String()
		key := morph.Fold(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// Window returns the text around the first address keyword as a single
// low-confidence candidate.
func (r *Recognizer) Window(text string) []string {
	if r.keywords.Len() == 0 {
		return nil
	}
	orig, folded := morph.FoldRunes(text)
	fs := string(folded)
	idx, _ := r.keywords.Index(fs)
	if idx < 0 {
		return nil
	}
	start := utf8.RuneCountInString(fs[:idx])

	from := start - r.window/6
	if from < 0 {
		from = 0
	}
	for from > 0 && from < start && !isBreak(orig[from-1]) {
		from++
	}
	to := from + r.window
	if to >= len(orig) {
		to = len(orig)
	} else {
		for to > start && !isBreak(orig[to]) {
			to--
		}
	}
	w := morph.CollapseSpace(string(orig[from:to]))
	w = strings.TrimRight(w, " ,;:-")
	if w == "" {
		return nil
	}
	return []string{w}
}

func isBreak(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
