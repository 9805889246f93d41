package store

import (
	"database/sql"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{`
CREATE TABLE IF NOT EXISTS shelters (
  shelter_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  source_url TEXT NOT NULL,
  post_url TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  info TEXT NOT NULL,
  post_date TEXT NOT NULL DEFAULT '',
  score INTEGER NOT NULL DEFAULT 0,
  avatar_key TEXT NOT NULL DEFAULT '',
  search TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS visited_sources (
  source_id TEXT PRIMARY KEY,
  seen_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS favorites (
  user_id TEXT NOT NULL,
  shelter_id TEXT NOT NULL REFERENCES shelters(shelter_id),
  created_at TEXT NOT NULL,
  PRIMARY KEY (user_id, shelter_id)
);`, `
CREATE TABLE IF NOT EXISTS favorite_posts (
  post_url TEXT PRIMARY KEY,
  shelter_id TEXT NOT NULL,
  text TEXT NOT NULL,
  published_at TEXT NOT NULL DEFAULT '',
  found_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS avatars (
  key TEXT PRIMARY KEY,
  content_type TEXT NOT NULL,
  bytes BLOB NOT NULL,
  fetched_at TEXT NOT NULL
);`,

		// ---- Schema v1: indexes ----

		`CREATE INDEX IF NOT EXISTS idx_shelters_city ON shelters(city);`,
		`CREATE INDEX IF NOT EXISTS idx_shelters_created_at ON shelters(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_visited_seen_at ON visited_sources(seen_at);`,
		`CREATE INDEX IF NOT EXISTS idx_favorite_posts_shelter ON favorite_posts(shelter_id, published_at);`,

		`PRAGMA user_version = 1;`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return tx.Commit()
}
