// Package card renders a shelter as a short HTML message using only the
// tags Telegram's HTML parse mode accepts.
package card

import (
	"bytes"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/morph"
	"github.com/shikkq/4eremsha/internal/rank"
)

const (
	mapsURL     = "https://yandex.ru/maps/?text="
	maxInfoRune = 3000
)

type MapLink struct {
	Address string
	URL     string
}

type Card struct {
	Name     string
	City     string
	Recency  string
	Info     string
	URL      string
	PostURL  string
	MapLinks []MapLink
}

// Telegram understands only the named entities &lt; &gt; &amp; &quot;.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

var tmpl = template.Must(template.New("card").Funcs(template.FuncMap{"esc": escaper.Replace}).Parse(
	`<b>{{esc .Name}}</b>
🏙 {{esc .City}} · {{esc .Recency}}

{{esc .Info}}
{{- range .MapLinks}}
🗺 <a href="{{esc .URL}}">{{esc .Address}}</a>
{{- end}}
{{if .PostURL}}
📝 <a href="{{esc .PostURL}}">Пост</a>{{end}}
🔗 <a href="{{esc .URL}}">Открыть сообщество</a>`))

func Build(rec domain.ShelterRecord, now time.Time) Card {
	c := Card{
		Name:    rec.Name,
		City:    rec.City,
		Recency: rank.DaysAgo(rec.PostDate, now),
		Info:    truncate(rec.Info, maxInfoRune),
		URL:     rec.SourceURL,
		PostURL: rec.PostURL,
	}
	for _, a := range AddressesFromInfo(rec.Info) {
		c.MapLinks = append(c.MapLinks, MapLink{Address: a, URL: MapURL(a, rec.City)})
	}
	return c
}

func Render(rec domain.ShelterRecord, now time.Time) (string, error) {
	var b bytes.Buffer
	if err := tmpl.Execute(&b, Build(rec, now)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MapURL is a Yandex Maps search link for addr, qualified with city when
// the address does not already name it.
func MapURL(addr, city string) string {
	q := addr
	if city != "" && !strings.Contains(morph.Fold(addr), morph.Fold(city)) {
		q = city + ", " + addr
	}
	return mapsURL + url.QueryEscape(q)
}

// AddressesFromInfo reads the bullet lines of the address section of an
// info block.
func AddressesFromInfo(info string) []string {
	var out []string
	in := false
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "📍"):
			in = true
		case in && strings.HasPrefix(line, "•"):
			if a := strings.TrimSpace(strings.TrimPrefix(line, "•")); a != "" {
				out = append(out, a)
			}
		case in:
			in = false
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
