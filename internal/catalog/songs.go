package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/database"
)

type SongStore interface {
	AddSong(ctx context.Context, in SongInput) (string, error)
	ListSongs(ctx context.Context, f SongFilter) ([]SongSummary, error)
	GetSong(ctx context.Context, id string) (Song, error)
	EditSong(ctx context.Context, id string, in SongInput) error
	DeleteSong(ctx context.Context, id string) error
}

type PostgresSongs struct {
	db database.DB
}

func NewPostgresSongs(db database.DB) *PostgresSongs {
	return &PostgresSongs{db: db}
}

func (s *PostgresSongs) AddSong(ctx context.Context, in SongInput) (string, error) {
	id := "song-" + uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO songs (id, title, year, performer, genre, duration, album_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, in.Title, in.Year, in.Performer, in.Genre, in.Duration, in.AlbumID)
	if database.IsForeignKeyViolation(err) {
		return "", apperr.NotFound("album not found")
	}
	if err != nil {
		return "", fmt.Errorf("insert song: %w", err)
	}
	return id, nil
}

func (s *PostgresSongs) ListSongs(ctx context.Context, f SongFilter) ([]SongSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, performer
		FROM songs
		WHERE title ILIKE $1 AND performer ILIKE $2
		ORDER BY title
	`, containsPattern(f.Title), containsPattern(f.Performer))
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := []SongSummary{}
	for rows.Next() {
		var song SongSummary
		if err := rows.Scan(&song.ID, &song.Title, &song.Performer); err != nil {
			return nil, fmt.Errorf("list songs scan: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list songs rows: %w", err)
	}
	return songs, nil
}

func (s *PostgresSongs) GetSong(ctx context.Context, id string) (Song, error) {
	var song Song
	err := s.db.QueryRow(ctx, `
		SELECT id, title, year, performer, genre, duration, album_id
		FROM songs WHERE id = $1
	`, id).Scan(
		&song.ID,
		&song.Title,
		&song.Year,
		&song.Performer,
		&song.Genre,
		&song.Duration,
		&song.AlbumID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Song{}, apperr.NotFound("song not found")
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

func (s *PostgresSongs) EditSong(ctx context.Context, id string, in SongInput) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE songs
		SET title = $1, year = $2, performer = $3, genre = $4, duration = $5, album_id = $6
		WHERE id = $7
	`, in.Title, in.Year, in.Performer, in.Genre, in.Duration, in.AlbumID, id)
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("album not found")
	}
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("failed to update song, id not found")
	}
	return nil
}

func (s *PostgresSongs) DeleteSong(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("failed to delete song, id not found")
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere. Wildcards in s
// are matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
