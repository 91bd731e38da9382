package catalog

import (
	"context"
	"fmt"

	"openmusic-service/internal/database"
)

// AutoMigrate creates the catalog tables. It expects the users table to exist.
func AutoMigrate(ctx context.Context, db database.DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS albums (
          id        TEXT PRIMARY KEY,
          name      TEXT NOT NULL,
          year      INT NOT NULL,
          cover_url TEXT
      )
    `); err != nil {
		return fmt.Errorf("migrate albums: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS songs (
          id        TEXT PRIMARY KEY,
          title     TEXT NOT NULL,
          year      INT NOT NULL,
          performer TEXT NOT NULL,
          genre     TEXT NOT NULL,
          duration  INT,
          album_id  TEXT REFERENCES albums(id) ON DELETE CASCADE
      )
    `); err != nil {
		return fmt.Errorf("migrate songs: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_songs_album ON songs(album_id)
    `); err != nil {
		return fmt.Errorf("migrate songs index: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS user_album_likes (
          id       TEXT PRIMARY KEY,
          user_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          album_id TEXT NOT NULL REFERENCES albums(id) ON DELETE CASCADE,
          UNIQUE (user_id, album_id)
      )
    `); err != nil {
		return fmt.Errorf("migrate user_album_likes: %w", err)
	}

	return nil
}
