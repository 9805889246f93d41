package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shikkq/4eremsha/internal/config"
	"github.com/shikkq/4eremsha/internal/dedup"
	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/metrics"
	"github.com/shikkq/4eremsha/internal/rank"
	"github.com/shikkq/4eremsha/internal/scrape/types"
	"github.com/shikkq/4eremsha/internal/scrape/util"
)

var ErrRunInProgress = errors.New("scrape: run already in progress")

type ShelterStore interface {
	InsertShelterIfNew(ctx context.Context, rec domain.ShelterRecord, avatarKey string) (bool, error)
}

type AvatarCacher interface {
	CacheFromURL(ctx context.Context, raw string) (string, error)
}

// Accepted is handed to Driver.OnAccepted for every newly stored shelter.
type Accepted struct {
	Source    domain.Source
	Record    domain.ShelterRecord
	Candidate rank.Candidate
}

type Report struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Searches     int       `json:"searches"`
	SearchErrors int       `json:"search_errors"`
	Sources      int       `json:"sources"`
	Seen         int       `json:"seen"`
	Filtered     int       `json:"filtered"`
	NoCandidate  int       `json:"no_candidate"`
	LowScore     int       `json:"low_score"`
	Accepted     int       `json:"accepted"`
	Duplicates   int       `json:"duplicates"`
	Failed       int       `json:"failed"`
	CapReached   bool      `json:"cap_reached"`
}

func (r *Report) count(outcome string) {
	switch outcome {
	case metrics.OutcomeSeen:
		r.Seen++
	case metrics.OutcomeFiltered:
		r.Filtered++
	case metrics.OutcomeNoCandidate:
		r.NoCandidate++
	case metrics.OutcomeLowScore:
		r.LowScore++
	case metrics.OutcomeAccepted:
		r.Accepted++
	case metrics.OutcomeDuplicate:
		r.Duplicates++
	case metrics.OutcomeFailed:
		r.Failed++
	}
}

// Driver runs one ingestion pass: search, filter, fetch, score, select,
// persist. Sources are handled one at a time; a failing source never stops
// its siblings.
type Driver struct {
	Search  types.Searcher
	Fetch   types.PostFetcher
	Scorer  rank.PostScorer
	Store   ShelterStore
	Visited *dedup.Cache

	Avatars    AvatarCacher     // optional
	Metrics    *metrics.Metrics // optional
	OnAccepted func(context.Context, Accepted)

	cfg      config.Config
	filter   *SourceFilter
	log      *zap.Logger
	now      func() time.Time
	lockPath string
	delay    time.Duration
}

func NewDriver(cfg config.Config, search types.Searcher, fetch types.PostFetcher, scorer rank.PostScorer,
	store ShelterStore, visited *dedup.Cache, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		Search:   search,
		Fetch:    fetch,
		Scorer:   scorer,
		Store:    store,
		Visited:  visited,
		cfg:      cfg,
		filter:   NewSourceFilter(cfg.Keywords),
		log:      log.Named("scrape"),
		now:      time.Now,
		lockPath: cfg.Path(cfg.Ingest.LockFile),
		delay:    time.Duration(cfg.Ingest.DelayMillis) * time.Millisecond,
	}
}

// Run processes cities (the configured ones when empty). Only one run per
// lock file may be active; a second caller gets ErrRunInProgress.
func (d *Driver) Run(ctx context.Context, cities []string) (Report, error) {
	if len(cities) == 0 {
		cities = d.cfg.Ingest.Cities
	}
	rep := Report{RunID: uuid.NewString(), StartedAt: d.now()}

	if d.lockPath != "" {
		fl := flock.New(d.lockPath)
		ok, err := fl.TryLock()
		if err != nil {
			return rep, fmt.Errorf("lock %s: %w", d.lockPath, err)
		}
		if !ok {
			return rep, ErrRunInProgress
		}
		defer func() { _ = fl.Unlock() }()
	}

	log := d.log.With(zap.String("run_id", rep.RunID))
	log.Info("run started", zap.Strings("cities", cities), zap.Int("visited", d.Visited.Len()))

	err := d.run(ctx, cities, &rep, log)
	rep.FinishedAt = d.now()

	result := "ok"
	if err != nil {
		result = "failed"
	}
	d.Metrics.Run(result, rep.FinishedAt.Sub(rep.StartedAt))
	log.Info("run finished",
		zap.Int("searches", rep.Searches),
		zap.Int("sources", rep.Sources),
		zap.Int("accepted", rep.Accepted),
		zap.Int("failed", rep.Failed),
		zap.Bool("cap_reached", rep.CapReached),
		zap.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)),
		zap.Error(err),
	)
	return rep, err
}

func (d *Driver) run(ctx context.Context, cities []string, rep *Report, log *zap.Logger) error {
	limit := d.cfg.Ingest.MaxNewSources
	capped := func() bool {
		if limit > 0 && rep.Accepted >= limit {
			rep.CapReached = true
			return true
		}
		return false
	}

	for _, city := range cities {
		for _, kw := range d.cfg.Keywords.Search {
			if capped() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rep.Searches++
			sources, err := d.Search.SearchSources(ctx, kw, city, d.cfg.Ingest.SearchLimit)
			if err != nil {
				rep.SearchErrors++
				d.Metrics.Error(metrics.StageSearch)
				log.Warn("search failed", zap.String("keyword", kw), zap.String("city", city), zap.Error(err))
				continue
			}
			log.Debug("search", zap.String("keyword", kw), zap.String("city", city), zap.Int("sources", len(sources)))

			for _, src := range sources {
				if capped() {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if src.ID == "" {
					continue
				}
				rep.Sources++
				outcome := d.processSource(ctx, src, city, log)
				rep.count(outcome)
				d.Metrics.Source(outcome)
			}
		}
	}
	return nil
}

func (d *Driver) processSource(ctx context.Context, src domain.Source, city string, log *zap.Logger) string {
	log = log.With(zap.String("source_id", src.ID), zap.String("city", city))

	if d.Visited.Seen(src.ID) {
		log.Debug("skip", zap.String("reason", "seen"))
		return metrics.OutcomeSeen
	}

	if ok, why := d.filter.Relevant(src.Name, src.Description); !ok {
		log.Debug("skip", zap.String("reason", why), zap.String("name", src.Name))
		d.markSeen(ctx, src.ID, log)
		return metrics.OutcomeFiltered
	}

	if err := util.Sleep(ctx, d.delay); err != nil {
		return metrics.OutcomeFailed
	}
	posts, err := d.Fetch.FetchPosts(ctx, src, d.cfg.Ingest.PostsPerSource)
	if err != nil {
		d.Metrics.Error(metrics.StageFetch)
		log.Warn("fetch failed", zap.String("fetcher", d.Fetch.Name()), zap.Error(err))
		return metrics.OutcomeFailed
	}

	now := d.now()
	best, out := BestPost(d.Scorer, posts, city, now, TieBreak(d.cfg.Scoring.TieBreak), d.cfg.Scoring.MinScore)
	switch out {
	case NoCandidate:
		log.Debug("skip", zap.String("reason", out.String()), zap.Int("posts", len(posts)))
		d.markSeen(ctx, src.ID, log)
		return metrics.OutcomeNoCandidate
	case InsufficientConfidence:
		d.Metrics.Score(best.Score)
		log.Debug("skip", zap.String("reason", out.String()), zap.Int("score", best.Score))
		d.markSeen(ctx, src.ID, log)
		return metrics.OutcomeLowScore
	}
	d.Metrics.Score(best.Score)

	rec := domain.ShelterRecord{
		ShelterID: src.ID,
		Name:      src.Name,
		SourceURL: src.URL,
		PostURL:   best.Post.URL,
		City:      city,
		Info:      rank.FormatInfo(best, now),
		PostDate:  best.Post.PublishedAt,
		Score:     best.Score,
		CreatedAt: now,
	}

	var avatarKey string
	if d.Avatars != nil && src.AvatarURL != "" {
		k, err := d.Avatars.CacheFromURL(ctx, src.AvatarURL)
		if err != nil {
			log.Warn("avatar cache failed", zap.Error(err))
		}
		avatarKey = k
	}

	added, err := d.Store.InsertShelterIfNew(ctx, rec, avatarKey)
	if err != nil {
		d.Metrics.Error(metrics.StageStore)
		log.Warn("store failed", zap.Error(err))
		return metrics.OutcomeFailed
	}
	d.markSeen(ctx, src.ID, log)

	if !added {
		log.Debug("skip", zap.String("reason", "duplicate"))
		return metrics.OutcomeDuplicate
	}
	log.Info("shelter added", zap.String("name", src.Name), zap.Int("score", best.Score))
	if d.OnAccepted != nil {
		d.OnAccepted(ctx, Accepted{Source: src, Record: rec, Candidate: best})
	}
	return metrics.OutcomeAccepted
}

// markSeen records the decision and persists it right away so a crash
// mid-run does not repeat finished work.
func (d *Driver) markSeen(ctx context.Context, id string, log *zap.Logger) {
	d.Visited.MarkSeen(id)
	if err := d.Visited.Save(ctx); err != nil {
		d.Metrics.Error(metrics.StageDedup)
		log.Warn("visited save failed", zap.Error(err))
	}
}
