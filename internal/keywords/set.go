// Package keywords matches configured stem lists against folded text.
package keywords

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/shikkq/4eremsha/internal/morph"
)

// Set is a case-insensitive substring dictionary. Matching is a single
// Aho-Corasick pass; the matcher keeps per-call state so calls are serialized.
type Set struct {
	mu    sync.Mutex
	words []string
	m     *ahocorasick.Matcher
}

func New(words []string) *Set {
	s := &Set{}
	seen := map[string]bool{}
	for _, w := range words {
		w = morph.Fold(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		s.words = append(s.words, w)
	}
	if len(s.words) > 0 {
		s.m = ahocorasick.NewStringMatcher(s.words)
	}
	return s
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.words...)
}

// Contains folds text and reports whether any word occurs in it.
func (s *Set) Contains(text string) bool {
	return s.ContainsFolded(morph.Fold(text))
}

func (s *Set) ContainsFolded(folded string) bool {
	return len(s.MatchFolded(folded)) > 0
}

// Match folds text and returns the words found, in dictionary order.
func (s *Set) Match(text string) []string {
	return s.MatchFolded(morph.Fold(text))
}

func (s *Set) MatchFolded(folded string) []string {
	if s == nil || s.m == nil || folded == "" {
		return nil
	}
	s.mu.Lock()
	hits := s.m.Match([]byte(folded))
	s.mu.Unlock()

	sort.Ints(hits)
	out := make([]string, 0, len(hits))
	for _, i := range hits {
		out = append(out, s.words[i])
	}
	return out
}

// Index returns the byte offset of the leftmost occurrence of any word in
// folded text, and that word. It returns -1 when nothing matches.
func (s *Set) Index(folded string) (int, string) {
	best, word := -1, ""
	for _, w := range s.MatchFolded(folded) {
		i := strings.Index(folded, w)
		if i < 0 {
			continue
		}
		if best < 0 || i < best || (i == best && len(w) > len(word)) {
			best, word = i, w
		}
	}
	return best, word
}
