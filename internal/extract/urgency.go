package extract

import (
	"strings"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/morph"
)

// ExtractUrgency returns UrgencyUrgent when an urgent stem occurs outside
// every not-urgent phrase ("не срочно" does not count as "срочно"), then
// UrgencyNotUrgent when a not-urgent phrase occurs, else UrgencyUnknown.
// Urgent wins when both are present.
func ExtractUrgency(text string, urgent, notUrgent *keywords.Set) domain.Urgency {
	folded := morph.Fold(text)
	calm := notUrgent.MatchFolded(folded)

	masked := folded
	for _, w := range calm {
		masked = strings.ReplaceAll(masked, w, strings.Repeat(" ", len(w)))
	}
	switch {
	case urgent.ContainsFolded(masked):
		return domain.UrgencyUrgent
	case len(calm) > 0:
		return domain.UrgencyNotUrgent
	default:
		return domain.UrgencyUnknown
	}
}
