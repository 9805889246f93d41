package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shikkq/4eremsha/internal/domain"
	"github.com/shikkq/4eremsha/internal/morph"
)

type Shelter struct {
	domain.ShelterRecord
	AvatarKey string `json:"avatar_key,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ShelterFilter struct {
	City   string
	Query  string // folded substring of name or info
	Limit  int
	Offset int
}

// InsertShelterIfNew stores rec unless a record with the same shelter_id
// exists. The first write wins; it reports whether a row was added.
func (d *DB) InsertShelterIfNew(ctx context.Context, rec domain.ShelterRecord, avatarKey string) (bool, error) {
	if strings.TrimSpace(rec.ShelterID) == "" {
		return false, errors.New("missing shelter_id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO shelters(shelter_id, name, source_url, post_url, city, info, post_date, score, avatar_key, search, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`,
		rec.ShelterID,
		rec.Name,
		rec.SourceURL,
		rec.PostURL,
		rec.City,
		rec.Info,
		formatTime(rec.PostDate),
		rec.Score,
		avatarKey,
		morph.Fold(rec.Name+" "+rec.Info),
		formatTime(rec.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert shelter: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

var shelterColumns = []string{
	"shelter_id", "name", "source_url", "post_url", "city", "info", "post_date", "score", "avatar_key", "created_at",
}

func (d *DB) GetShelter(ctx context.Context, id string) (Shelter, error) {
	query, args, err := sq.Select(shelterColumns...).From("shelters").Where(sq.Eq{"shelter_id": id}).ToSql()
	if err != nil {
		return Shelter{}, err
	}
	s, err := scanShelter(d.Pool.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Shelter{}, ErrNotFound
	}
	return s, err
}

func (d *DB) ListShelters(ctx context.Context, f ShelterFilter) ([]Shelter, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := sq.Select(shelterColumns...).From("shelters")
	if c := strings.TrimSpace(f.City); c != "" {
		q = q.Where(sq.Eq{"city": c})
	}
	if s := morph.Fold(strings.TrimSpace(f.Query)); s != "" {
		q = q.Where(sq.Like{"search": "%" + s + "%"})
	}
	query, args, err := q.OrderBy("created_at DESC", "shelter_id").
		Limit(uint64(f.Limit)).Offset(uint64(f.Offset)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shelter
	for rows.Next() {
		s, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (d *DB) CountShelters(ctx context.Context, city string) (int, error) {
	q := sq.Select("COUNT(*)").From("shelters")
	if city != "" {
		q = q.Where(sq.Eq{"city": city})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = d.Pool.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func scanShelter(r interface{ Scan(dest ...any) error }) (Shelter, error) {
	var s Shelter
	var postDate, createdAt string
	if err := r.Scan(
		&s.ShelterID,
		&s.Name,
		&s.SourceURL,
		&s.PostURL,
		&s.City,
		&s.Info,
		&postDate,
		&s.Score,
		&s.AvatarKey,
		&createdAt,
	); err != nil {
		return Shelter{}, err
	}
	s.PostDate = parseTime(postDate)
	s.CreatedAt = parseTime(createdAt)
	if s.AvatarKey != "" {
		s.AvatarURL = "/avatars/" + s.AvatarKey
	}
	return s, nil
}
