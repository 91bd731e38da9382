package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/database"
)

type AlbumStore interface {
	AddAlbum(ctx context.Context, in AlbumInput) (string, error)
	GetAlbum(ctx context.Context, id string) (AlbumDetail, error)
	EditAlbum(ctx context.Context, id string, in AlbumInput) error
	DeleteAlbum(ctx context.Context, id string) (DeletedAlbum, error)
	AlbumExists(ctx context.Context, id string) (bool, error)
	AlbumCover(ctx context.Context, id string) (*string, error)
	SetAlbumCover(ctx context.Context, id, url string) error
}

type PostgresAlbums struct {
	db database.DB
}

func NewPostgresAlbums(db database.DB) *PostgresAlbums {
	return &PostgresAlbums{db: db}
}

func (s *PostgresAlbums) AddAlbum(ctx context.Context, in AlbumInput) (string, error) {
	id := "album-" + uuid.NewString()
	if _, err := s.db.Exec(ctx,
		`INSERT INTO albums (id, name, year) VALUES ($1, $2, $3)`,
		id, in.Name, in.Year,
	); err != nil {
		return "", fmt.Errorf("insert album: %w", err)
	}
	return id, nil
}

func (s *PostgresAlbums) GetAlbum(ctx context.Context, id string) (AlbumDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT a.id, a.name, a.year, a.cover_url, s.id, s.title, s.performer
		FROM albums a
		LEFT JOIN songs s ON s.album_id = a.id
		WHERE a.id = $1
		ORDER BY s.title
	`, id)
	if err != nil {
		return AlbumDetail{}, fmt.Errorf("get album: %w", err)
	}
	defer rows.Close()

	var (
		album AlbumDetail
		found bool
	)
	album.Songs = []SongSummary{}
	for rows.Next() {
		var songID, title, performer *string
		if err := rows.Scan(
			&album.ID,
			&album.Name,
			&album.Year,
			&album.CoverURL,
			&songID,
			&title,
			&performer,
		); err != nil {
			return AlbumDetail{}, fmt.Errorf("get album scan: %w", err)
		}
		found = true
		if songID != nil {
			album.Songs = append(album.Songs, SongSummary{ID: *songID, Title: deref(title), Performer: deref(performer)})
		}
	}
	if err := rows.Err(); err != nil {
		return AlbumDetail{}, fmt.Errorf("get album rows: %w", err)
	}
	if !found {
		return AlbumDetail{}, apperr.NotFound("album not found")
	}
	return album, nil
}

func (s *PostgresAlbums) EditAlbum(ctx context.Context, id string, in AlbumInput) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE albums SET name = $1, year = $2 WHERE id = $3`,
		in.Name, in.Year, id,
	)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("failed to update album, id not found")
	}
	return nil
}

// DeleteAlbum removes the album and, through the cascade, its songs. The ids
// of those songs are returned so their cache entries can be dropped.
func (s *PostgresAlbums) DeleteAlbum(ctx context.Context, id string) (DeletedAlbum, error) {
	var out DeletedAlbum

	err := database.InTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT cover_url FROM albums WHERE id = $1 FOR UPDATE`, id,
		).Scan(&out.CoverURL)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("failed to delete album, id not found")
		}
		if err != nil {
			return fmt.Errorf("lock album: %w", err)
		}

		rows, err := tx.Query(ctx, `SELECT id FROM songs WHERE album_id = $1`, id)
		if err != nil {
			return fmt.Errorf("list album songs: %w", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("list album songs: %w", err)
		}
		out.SongIDs = ids

		if _, err := tx.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete album: %w", err)
		}
		return nil
	})
	if err != nil {
		return DeletedAlbum{}, err
	}
	return out, nil
}

func (s *PostgresAlbums) AlbumExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM albums WHERE id = $1)`, id,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("check album: %w", err)
	}
	return ok, nil
}

func (s *PostgresAlbums) AlbumCover(ctx context.Context, id string) (*string, error) {
	var url *string
	err := s.db.QueryRow(ctx, `SELECT cover_url FROM albums WHERE id = $1`, id).Scan(&url)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("album not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get album cover: %w", err)
	}
	return url, nil
}

func (s *PostgresAlbums) SetAlbumCover(ctx context.Context, id, url string) error {
	tag, err := s.db.Exec(ctx, `UPDATE albums SET cover_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return fmt.Errorf("set album cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("album not found")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
