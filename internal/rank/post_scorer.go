package rank

import (
	"time"

	"github.com/shikkq/4eremsha/internal/address"
	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/extract"
	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/morph"
)

// Scorer is the keyword and extractor based PostScorer. It holds only
// read-only state and is safe for concurrent use.
type Scorer struct {
	cfg config.ScoringConfig

	relevance *keywords.Set
	help      *keywords.Set
	topic     *keywords.Set
	urgent    *keywords.Set
	notUrgent *keywords.Set
	address   *address.Recognizer
}

func NewScorer(cfg config.Config) *Scorer {
	kw := cfg.Keywords
	return &Scorer{
		cfg:       cfg.Scoring,
		relevance: keywords.New(kw.Relevance),
		help:      keywords.New(kw.Help),
		topic:     keywords.New(kw.Topic),
		urgent:    keywords.New(kw.Urgent),
		notUrgent: keywords.New(kw.NotUrgent),
		address: address.NewRecognizer(
			address.Strategy(cfg.Address.Strategy),
			cfg.Address.WindowChars,
			keywords.New(kw.Address),
			cfg.Ingest.Cities,
		),
	}
}

// Score evaluates p. The relevance and city gates run first and short-circuit;
// everything after them only adds or subtracts points.
func (s *Scorer) Score(p domain.Post, city string, now time.Time) (Candidate, Rejection) {
	folded := morph.Fold(p.Text)
	if !s.relevance.ContainsFolded(folded) {
		return Candidate{}, NoKeyword
	}
	if city != "" && !CityMentioned(p.Text, city) {
		return Candidate{}, NoCity
	}

	c := Candidate{Post: p}
	add := func(label string, points int) {
		c.Score += points
		c.Signals = append(c.Signals, Signal{Label: label, Points: points})
	}

	ex := &c.Extraction
	ex.Stale = s.IsStale(p, now)
	if ex.Stale {
		add(SignalStale, s.cfg.StalePenalty)
	}
	if s.cfg.ShortTextPenalty != 0 && len([]rune(morph.CollapseSpace(folded))) < s.cfg.ShortTextRunes {
		add(SignalShortText, s.cfg.ShortTextPenalty)
	}

	if s.help.ContainsFolded(folded) {
		add(SignalHelp, s.cfg.HelpPoints)
		ex.NeedLines = extract.NeedLines(p.Text, s.help, s.cfg.MaxNeedLines)
	}

	ex.Contacts = extract.ExtractContacts(p.Text)
	if len(ex.Contacts.Phones) > 0 {
		add(SignalPhone, s.cfg.ContactPoints)
	}
	if len(ex.Contacts.Handles) > 0 {
		add(SignalHandle, s.cfg.ContactPoints)
	}
	if len(ex.Contacts.Links) > 0 {
		add(SignalLink, s.cfg.ContactPoints)
	}

	ex.Addresses = s.address.Extract(p.Text)
	if len(ex.Addresses) > 0 {
		add(SignalAddress, s.cfg.AddressPoints)
	}

	if s.topic.ContainsFolded(folded) {
		add(SignalTopic, s.cfg.TopicPoints)
	}
	if city != "" {
		add(SignalCity, s.cfg.CityPoints)
	}

	ex.Urgency = extract.ExtractUrgency(p.Text, s.urgent, s.notUrgent)
	return c, Accepted
}

// IsStale reports whether p was flagged stale by the fetch layer or is older
// than the configured freshness window. Undated posts are not stale.
func (s *Scorer) IsStale(p domain.Post, now time.Time) bool {
	if p.Stale {
		return true
	}
	if p.PublishedAt.IsZero() || s.cfg.StaleDays <= 0 {
		return false
	}
	return now.Sub(p.PublishedAt) > time.Duration(s.cfg.StaleDays)*24*time.Hour
}

// MinScore is the acceptance threshold.
func (s *Scorer) MinScore() int { return s.cfg.MinScore }
