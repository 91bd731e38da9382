package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/database"
)

type LikeStore interface {
	HasLiked(ctx context.Context, userID, albumID string) (bool, error)
	AddLike(ctx context.Context, userID, albumID string) error
	DeleteLike(ctx context.Context, userID, albumID string) error
	CountLikes(ctx context.Context, albumID string) (int, error)
}

type PostgresLikes struct {
	db database.DB
}

func NewPostgresLikes(db database.DB) *PostgresLikes {
	return &PostgresLikes{db: db}
}

func (s *PostgresLikes) HasLiked(ctx context.Context, userID, albumID string) (bool, error) {
	var liked bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_album_likes WHERE user_id = $1 AND album_id = $2)`,
		userID, albumID,
	).Scan(&liked); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

func (s *PostgresLikes) AddLike(ctx context.Context, userID, albumID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_album_likes (id, user_id, album_id) VALUES ($1, $2, $3)`,
		"like-"+uuid.NewString(), userID, albumID,
	)
	if database.IsUniqueViolation(err) {
		return apperr.Invariant("album already liked")
	}
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("album not found")
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (s *PostgresLikes) DeleteLike(ctx context.Context, userID, albumID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM user_album_likes WHERE user_id = $1 AND album_id = $2`,
		userID, albumID,
	)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Invariant("album not liked yet")
	}
	return nil
}

func (s *PostgresLikes) CountLikes(ctx context.Context, albumID string) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_album_likes WHERE album_id = $1`, albumID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
