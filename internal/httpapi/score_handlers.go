package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/rank"
)

// ScoreHandler runs the post scorer on ad-hoc text for tuning keywords.
type ScoreHandler struct {
	Scorer rank.PostScorer
	Cfg    config.Config
	Now    func() time.Time
}

type scoreReq struct {
	Text        string    `json:"text"`
	City        string    `json:"city"`
	PublishedAt time.Time `json:"published_at"`
}

type scoreResp struct {
	Rejection  string          `json:"rejection"`
	Score      int             `json:"score"`
	MinScore   int             `json:"min_score"`
	Passes     bool            `json:"passes"`
	Signals    []rank.Signal   `json:"signals"`
	Extraction rank.Extraction `json:"extraction"`
	Info       string          `json:"info,omitempty"`
}

func (h ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_text", "text is required")
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	post := domain.Post{Text: req.Text, PublishedAt: req.PublishedAt}
	c, rej := h.Scorer.Score(post, strings.TrimSpace(req.City), now)

	resp := scoreResp{
		Rejection: rej.String(),
		MinScore:  h.Cfg.Scoring.MinScore,
		Signals:   []rank.Signal{},
	}
	if rej == rank.Accepted {
		resp.Score = c.Score
		resp.Passes = c.Score >= h.Cfg.Scoring.MinScore
		if c.Signals != nil {
			resp.Signals = c.Signals
		}
		resp.Extraction = c.Extraction
		resp.Info = rank.FormatInfo(c, now)
	}
	writeJSON(w, resp)
}
