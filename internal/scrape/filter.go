package scrape

import (
	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/keywords"
	"github.com/shikkq/4eremsha/internal/morph"
)

const (
	ReasonNoInclusion = "no_inclusion_keyword"
	reasonExcluded    = "excluded:"
)

// SourceFilter is the coarse topical check run on a source's name and
// description before any of its posts are fetched. It prefers throughput
// over recall.
type SourceFilter struct {
	include *keywords.Set
	exclude *keywords.Set
}

func NewSourceFilter(kw config.Keywords) *SourceFilter {
	return &SourceFilter{
		include: keywords.New(kw.Inclusion),
		exclude: keywords.New(kw.Exclusion),
	}
}

// Relevant reports whether the source is worth fetching. On rejection the
// reason names the first exclusion keyword hit, or ReasonNoInclusion.
func (f *SourceFilter) Relevant(name, description string) (keep bool, reason string) {
	folded := morph.Fold(name + "\n" + description)

	if _, kw := f.exclude.Index(folded); kw != "" {
		return false, reasonExcluded + kw
	}
	if !f.include.ContainsFolded(folded) {
		return false, ReasonNoInclusion
	}
	return true, ""
}
