// Package extract recognizes contact channels, urgency and help appeals in
// raw post text. Every function is total: malformed input yields empty output.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindPhone
	KindHandle
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindPhone:
		return "phone"
	case KindHandle:
		return "handle"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Contacts holds normalized, deduplicated contacts in order of appearance.
type Contacts struct {
	Phones  []string `json:"phones,omitempty"`
	Handles []string `json:"handles,omitempty"`
	Links   []string `json:"links,omitempty"`
}

func (c Contacts) All() []string {
	out := make([]string, 0, len(c.Phones)+len(c.Handles)+len(c.Links))
	out = append(out, c.Phones...)
	out = append(out, c.Handles...)
	return append(out, c.Links...)
}

// Categories counts the kinds with at least one contact.
func (c Contacts) Categories() int {
	n := 0
	for _, xs := range [][]string{c.Phones, c.Handles, c.Links} {
		if len(xs) > 0 {
			n++
		}
	}
	return n
}

func (c Contacts) Empty() bool { return c.Categories() == 0 }

var (
	urlRe     = regexp.MustCompile(`(?i)https?://[^\s<>"'«»\[\]{}|\\^` + "`" + `]+`)
	bareTMeRe = regexp.MustCompile(`(?i)(?:^|[^\w./@])((?:t|telegram)\.me/[A-Za-z][A-Za-z0-9_]{2,31})`)
	handleRe  = regexp.MustCompile(`(?:^|[^\w.@/])(@[A-Za-z][A-Za-z0-9_]{2,31})`)
	phoneRe   = regexp.MustCompile(`(?:\+7|8)[\s\-()]*\d{3}[\s\-()]*\d{3}[\s\-]*\d{2}[\s\-]*\d{2}`)

	phoneFullRe  = regexp.MustCompile(`^` + phoneRe.String() + `$`)
	handleFullRe = regexp.MustCompile(`^@[A-Za-z][A-Za-z0-9_]{2,31}$`)
	tmeFullRe    = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?(?:t|telegram)\.me/([A-Za-z][A-Za-z0-9_]{2,31})/?$`)
	linkFullRe   = regexp.MustCompile(`(?i)^https?://\S+$`)
)

const urlTrailingJunk = ".,;:!?)]}»\"'…"

// ExtractContacts finds phones, handles and links. Links are taken first and
// masked out, so a URL never also yields a handle or a phone.
func ExtractContacts(text string) Contacts {
	type hit struct {
		pos int
		raw string
	}
	var hits []hit

	buf := []byte(text)
	for _, m := range urlRe.FindAllIndex(buf, -1) {
		hits = append(hits, hit{m[0], strings.TrimRight(string(buf[m[0]:m[1]]), urlTrailingJunk)})
		mask(buf, m[0], m[1])
	}
	for _, m := range bareTMeRe.FindAllSubmatchIndex(buf, -1) {
		hits = append(hits, hit{m[2], string(buf[m[2]:m[3]])})
		mask(buf, m[2], m[3])
	}
	for _, m := range handleRe.FindAllSubmatchIndex(buf, -1) {
		hits = append(hits, hit{m[2], string(buf[m[2]:m[3]])})
		mask(buf, m[2], m[3])
	}
	for _, m := range phoneRe.FindAllIndex(buf, -1) {
		if digitAt(buf, m[0]-1) || digitAt(buf, m[1]) || plusAt(buf, m[0]-1) {
			continue
		}
		hits = append(hits, hit{m[0], string(buf[m[0]:m[1]])})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var c Contacts
	seen := map[string]bool{}
	for _, h := range hits {
		n := NormalizeContact(h.raw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		switch Classify(n) {
		case KindPhone:
			c.Phones = append(c.Phones, n)
		case KindHandle:
			c.Handles = append(c.Handles, n)
		case KindLink:
			c.Links = append(c.Links, n)
		}
	}
	return c
}

// Classify reports which contact pattern s matches as a whole.
func Classify(s string) Kind {
	s = strings.TrimSpace(s)
	switch {
	case phoneFullRe.MatchString(s):
		return KindPhone
	case handleFullRe.MatchString(s) || tmeFullRe.MatchString(s):
		return KindHandle
	case linkFullRe.MatchString(s):
		return KindLink
	default:
		return KindUnknown
	}
}

// NormalizeContact maps a contact to its canonical form: +7XXXXXXXXXX for
// phones, lower-case @name for handles and a canonical URL for links.
// Unrecognized input is returned trimmed. NormalizeContact is idempotent.
func NormalizeContact(s string) string {
	s = strings.TrimSpace(s)
	switch Classify(s) {
	case KindPhone:
		return normalizePhone(s)
	case KindHandle:
		if m := tmeFullRe.FindStringSubmatch(s); m != nil {
			return "@" + strings.ToLower(m[1])
		}
		return strings.ToLower(s)
	case KindLink:
		return CanonicalURL(s)
	default:
		return s
	}
}

func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 11 {
		return s
	}
	return "+7" + digits[1:]
}

func mask(buf []byte, from, to int) {
	for i := from; i < to; i++ {
		buf[i] = ' '
	}
}

// plusAt rejects a trunk-prefix 8 that is really part of a foreign +8 code.
func plusAt(buf []byte, i int) bool {
	return i >= 0 && i < len(buf) && buf[i] == '+'
}

func digitAt(buf []byte, i int) bool {
	return i >= 0 && i < len(buf) && buf[i] >= '0' && buf[i] <= '9'
}
