package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shikkq/4eremsha/internal/domain"
)

func (d *DB) AddFavorite(ctx context.Context, userID, shelterID string) (bool, error) {
	if _, err := d.GetShelter(ctx, shelterID); err != nil {
		return false, err
	}
	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO favorites(user_id, shelter_id, created_at) VALUES(?,?,?);`,
		userID, shelterID, formatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (d *DB) RemoveFavorite(ctx context.Context, userID, shelterID string) error {
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND shelter_id = ?;`, userID, shelterID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT user_id, shelter_id, created_at FROM favorites WHERE user_id = ? ORDER BY created_at;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var at string
		if err := rows.Scan(&f.UserID, &f.ShelterID, &at); err != nil {
			return nil, err
		}
		f.CreatedAt = parseTime(at)
		out = append(out, f)
	}
	return out, rows.Err()
}

// FavoriteSourceIDs lists shelters bookmarked by at least one user.
func (d *DB) FavoriteSourceIDs(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT DISTINCT shelter_id FROM favorites ORDER BY shelter_id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertFavoritePostIfNew keys posts by URL; a repeated URL is a no-op.
func (d *DB) InsertFavoritePostIfNew(ctx context.Context, p domain.FavoritePost) (bool, error) {
	if p.FoundAt.IsZero() {
		p.FoundAt = time.Now()
	}
	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO favorite_posts(post_url, shelter_id, text, published_at, found_at) VALUES(?,?,?,?,?);`,
		p.PostURL, p.ShelterID, p.Text, formatTime(p.PublishedAt), formatTime(p.FoundAt))
	if err != nil {
		return false, fmt.Errorf("insert favorite post: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListFavoritePosts returns recent posts of the user's favorite shelters,
// newest first.
func (d *DB) ListFavoritePosts(ctx context.Context, userID string, limit int) ([]domain.FavoritePost, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	query, args, err := sq.Select("p.shelter_id", "p.post_url", "p.text", "p.published_at", "p.found_at").
		From("favorite_posts p").
		Join("favorites f ON f.shelter_id = p.shelter_id").
		Where(sq.Eq{"f.user_id": userID}).
		OrderBy("p.published_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FavoritePost
	for rows.Next() {
		var p domain.FavoritePost
		var pub, found string
		if err := rows.Scan(&p.ShelterID, &p.PostURL, &p.Text, &pub, &found); err != nil {
			return nil, err
		}
		p.PublishedAt = parseTime(pub)
		p.FoundAt = parseTime(found)
		out = append(out, p)
	}
	return out, rows.Err()
}
