package domain

import "time"

type Post struct {
	ID          string
	SourceID    string
	PublishedAt time.Time // zero when the fetch layer could not date it
	Text        string
	URL         string
	Stale       bool // set by the fetch layer when no fresh post exists
}

type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyUrgent
	UrgencyNotUrgent
)

func (u Urgency) String() string {
	switch u {
	case UrgencyUrgent:
		return "urgent"
	case UrgencyNotUrgent:
		return "not_urgent"
	default:
		return "unknown"
	}
}

// Label is the user-facing Russian label.
func (u Urgency) Label() string {
	switch u {
	case UrgencyUrgent:
		return "🔥 Срочно"
	case UrgencyNotUrgent:
		return "⏱ Не срочно"
	default:
		return "❔ Не указано"
	}
}
