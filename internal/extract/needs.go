package extract

import (
	"strings"

	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/morph"
)

const maxNeedLineRunes = 200

// NeedLines returns up to max sentences that contain a help keyword, in text
// order. Long sentences are cut to a bounded prefix.
func NeedLines(text string, help *keywords.Set, max int) []string {
	if max <= 0 || help.Len() == 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, s := range morph.Sentences(text) {
		if !help.Contains(s) {
			continue
		}
		s = truncateRunes(s, maxNeedLineRunes)
		key := morph.Fold(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	cut := string(rs[:n])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-") + "…"
}
