package auth

import (
	"context"
	"fmt"

	"openmusic-service/internal/database"
)

func AutoMigrate(ctx context.Context, db database.DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS users (
          id       TEXT PRIMARY KEY,
          username TEXT NOT NULL UNIQUE,
          password TEXT NOT NULL,
          fullname TEXT NOT NULL
      )
    `); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS authentications (
          token TEXT NOT NULL
      )
    `); err != nil {
		return fmt.Errorf("migrate authentications: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_authentications_token ON authentications(token)
    `); err != nil {
		return fmt.Errorf("migrate authentications index: %w", err)
	}

	return nil
}
