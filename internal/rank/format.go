package rank

import (
	"fmt"
	"strings"
	"time"
)

const incompleteNotice = "⚠️ Информация может быть неполной: проверьте контакты и адрес в оригинальном посте."

// FormatInfo renders the persisted info block: recency, needs, contacts,
// address, and a disclaimer when contacts or address are missing.
func FormatInfo(c Candidate, now time.Time) string {
	ex := c.Extraction
	var b strings.Builder

	if c.Post.PublishedAt.IsZero() {
		b.WriteString("📅 Дата поста неизвестна\n")
	} else {
		fmt.Fprintf(&b, "📅 Пост от %s (%s)\n", c.Post.PublishedAt.In(now.Location()).Format("02.01.2006"), DaysAgo(c.Post.PublishedAt, now))
	}
	if ex.Stale {
		b.WriteString("⏳ Свежих публикаций нет, данные могут быть устаревшими\n")
	}

	if len(ex.NeedLines) > 0 {
		fmt.Fprintf(&b, "\n🆘 Что нужно (%s):\n", ex.Urgency.Label())
		for _, l := range ex.NeedLines {
			b.WriteString("• " + l + "\n")
		}
	}

	if contacts := ex.Contacts.All(); len(contacts) > 0 {
		b.WriteString("\n📞 Контакты:\n")
		for _, ct := range contacts {
			b.WriteString("• " + ct + "\n")
		}
	}

	if len(ex.Addresses) > 0 {
		b.WriteString("\n📍 Адрес:\n")
		for _, a := range ex.Addresses {
			b.WriteString("• " + a + "\n")
		}
	}

	if ex.Contacts.Empty() || len(ex.Addresses) == 0 {
		b.WriteString("\n" + incompleteNotice + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// DaysAgo renders the age of t in whole days.
func DaysAgo(t, now time.Time) string {
	if t.IsZero() {
		return "дата неизвестна"
	}
	days := int(now.Sub(t).Hours() / 24)
	if days <= 0 {
		return "сегодня"
	}
	return fmt.Sprintf("%d дн. назад", days)
}
