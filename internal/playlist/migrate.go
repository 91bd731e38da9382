package playlist

import (
	"context"
	"fmt"

	"openmusic-service/internal/database"
)

// AutoMigrate creates the playlist tables. Run it after the auth and catalog
// migrations.
func AutoMigrate(ctx context.Context, db database.DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id    TEXT PRIMARY KEY,
          name  TEXT NOT NULL,
          owner TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
      )
    `); err != nil {
		return fmt.Errorf("migrate playlists: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlist_songs (
          id          TEXT PRIMARY KEY,
          playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          song_id     TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          UNIQUE (playlist_id, song_id)
      )
    `); err != nil {
		return fmt.Errorf("migrate playlist_songs: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS collaborations (
          id          TEXT PRIMARY KEY,
          playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          UNIQUE (playlist_id, user_id)
      )
    `); err != nil {
		return fmt.Errorf("migrate collaborations: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlist_song_activities (
          id          TEXT PRIMARY KEY,
          playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
          song_id     TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
          user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
          action      TEXT NOT NULL CHECK (action IN ('add', 'delete')),
          time        TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return fmt.Errorf("migrate playlist_song_activities: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_activities_playlist_time
      ON playlist_song_activities(playlist_id, time)
    `); err != nil {
		return fmt.Errorf("migrate activities index: %w", err)
	}

	return nil
}
