package scrape

import (
	"time"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/rank"
)

// TieBreak decides which of two equally scored candidates wins.
type TieBreak string

const (
	TieFirst TieBreak = "first" // first-encountered max wins
	TieLast  TieBreak = "last"  // later-scanned candidate wins
)

type Outcome int

const (
	Selected Outcome = iota
	NoCandidate
	InsufficientConfidence
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case NoCandidate:
		return "no_keyword"
	case InsufficientConfidence:
		return "insufficient_confidence"
	default:
		return "unknown"
	}
}

// SelectBest picks the highest scoring candidate. An empty list means no
// post passed the hard gates. A best score under minScore selects nothing.
func SelectBest(cands []rank.Candidate, policy TieBreak, minScore int) (rank.Candidate, Outcome) {
	if len(cands) == 0 {
		return rank.Candidate{}, NoCandidate
	}
	best := 0
	for i := 1; i < len(cands); i++ {
		s, b := cands[i].Score, cands[best].Score
		if s > b || (policy == TieLast && s == b) {
			best = i
		}
	}
	if cands[best].Score < minScore {
		return cands[best], InsufficientConfidence
	}
	return cands[best], Selected
}

// BestPost scores every post of one source in order and selects among the
// ones that pass the gates.
func BestPost(s rank.PostScorer, posts []domain.Post, city string, now time.Time, policy TieBreak, minScore int) (rank.Candidate, Outcome) {
	cands := make([]rank.Candidate, 0, len(posts))
	for _, p := range posts {
		c, rej := s.Score(p, city, now)
		if rej != rank.Accepted {
			continue
		}
		cands = append(cands, c)
	}
	return SelectBest(cands, policy, minScore)
}
