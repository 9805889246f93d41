package rank

import (
	"time"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/extract"
)

// PostScorer scores one post for a city. city may be empty.
type PostScorer interface {
	Score(p domain.Post, city string, now time.Time) (Candidate, Rejection)
}

type Signal struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type Extraction struct {
	Contacts  extract.Contacts `json:"contacts"`
	Addresses []string         `json:"addresses,omitempty"`
	NeedLines []string         `json:"need_lines,omitempty"`
	Urgency   domain.Urgency   `json:"urgency"`
	Stale     bool             `json:"stale"`
}

type Candidate struct {
	Post       domain.Post `json:"-"`
	Score      int         `json:"score"`
	Signals    []Signal    `json:"signals"`
	Extraction Extraction  `json:"extraction"`
}

// Rejection is why a post produced no candidate. Rejections are normal
// outcomes, not errors.
type Rejection int

const (
	Accepted Rejection = iota
	NoKeyword
	NoCity
)

func (r Rejection) String() string {
	switch r {
	case NoKeyword:
		return "no_keyword"
	case NoCity:
		return "no_city"
	default:
		return "accepted"
	}
}

const (
	SignalStale     = "stale"
	SignalShortText = "short_text"
	SignalHelp      = "help"
	SignalPhone     = "phone"
	SignalHandle    = "handle"
	SignalLink      = "link"
	SignalAddress   = "address"
	SignalTopic     = "topic"
	SignalCity      = "city"
)
