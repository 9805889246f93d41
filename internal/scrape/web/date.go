package web

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shikkq/4eremsha/internal/morph"
)

var months = map[string]time.Month{
	"янв": time.January, "фев": time.February, "мар": time.March, "апр": time.April,
	"мая": time.May, "май": time.May, "июн": time.June, "июл": time.July, "авг": time.August,
	"сен": time.September, "окт": time.October, "ноя": time.November, "дек": time.December,
}

var (
	relativeRe = regexp.MustCompile(`^(сегодня|вчера)(?:\s+в\s+(\d{1,2}):(\d{2}))?`)
	absoluteRe = regexp.MustCompile(`^(\d{1,2})\s+([а-я]+)\.?(?:\s+(\d{4}))?(?:\s+в\s+(\d{1,2}):(\d{2}))?`)
)

// ParseDate reads the date labels m.vk.com prints under posts:
// "сегодня в 12:30", "вчера в 9:05", "5 окт в 10:00", "5 октября 2025".
// Dates without a year that would land in the future belong to last year.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = morph.CollapseSpace(morph.Fold(s))
	loc := now.Location()

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		day := now
		if m[1] == "вчера" {
			day = now.AddDate(0, 0, -1)
		}
		h, mi := clock(m[2], m[3])
		return time.Date(day.Year(), day.Month(), day.Day(), h, mi, 0, 0, loc), true
	}

	m := absoluteRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	d, _ := strconv.Atoi(m[1])
	name := m[2]
	if len([]rune(name)) < 3 {
		return time.Time{}, false
	}
	month, ok := months[string([]rune(name)[:3])]
	if !ok || d < 1 || d > 31 {
		return time.Time{}, false
	}
	h, mi := clock(m[4], m[5])

	if m[3] != "" {
		y, _ := strconv.Atoi(m[3])
		return time.Date(y, month, d, h, mi, 0, 0, loc), true
	}
	t := time.Date(now.Year(), month, d, h, mi, 0, 0, loc)
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return t, true
}

func clock(h, m string) (int, int) {
	if h == "" {
		return 0, 0
	}
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return hh, mm
}

func screenName(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.Trim(s, "/")
	if i := strings.IndexAny(s, "?#/"); i >= 0 {
		s = s[:i]
	}
	return s
}
