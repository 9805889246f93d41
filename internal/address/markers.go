package address

import "github.com/shikkq/4eremsha/internal/morph"

type markerSet struct {
	abbr  map[string]bool // folded short forms, matched exactly
	stems map[string]bool // stems of full words, matched after stemming
}

func newMarkerSet(abbr []string, words []string) markerSet {
	m := markerSet{abbr: map[string]bool{}, stems: map[string]bool{}}
	for _, a := range abbr {
		m.abbr[morph.Fold(a)] = true
	}
	for _, w := range words {
		m.stems[morph.Stem(w)] = true
	}
	return m
}

func (m markerSet) has(t morph.Token) bool {
	if t.Kind != morph.Word {
		return false
	}
	if m.abbr[t.Norm] {
		return true
	}
	return len([]rune(t.Norm)) > 3 && m.stems[morph.Stem(t.Norm)]
}

var (
	cityMarkers = newMarkerSet(
		[]string{"г", "гор", "пгт", "пос"},
		[]string{"город", "поселок", "посёлок"},
	)
	streetMarkers = newMarkerSet(
		[]string{"ул", "пр", "пр-т", "пр-кт", "просп", "пер", "б-р", "бул", "ш", "наб", "пл", "мкр", "мкрн", "пр-д", "туп", "ал"},
		[]string{"улица", "проспект", "переулок", "бульвар", "шоссе", "набережная", "площадь",
			"микрорайон", "проезд", "тракт", "аллея", "тупик", "линия", "квартал"},
	)
	houseMarkers = newMarkerSet(
		[]string{"д", "дом", "вл", "влад"},
		[]string{"дом", "владение"},
	)
	blockMarkers = newMarkerSet(
		[]string{"к", "корп", "стр", "лит"},
		[]string{"корпус", "строение", "литера"},
	)
)
