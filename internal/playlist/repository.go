package playlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/database"
)

type Store interface {
	AddPlaylist(ctx context.Context, name, owner string) (string, error)
	GetPlaylists(ctx context.Context, userID string) ([]Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	PlaylistOwner(ctx context.Context, id string) (string, error)

	HasSong(ctx context.Context, playlistID, songID string) (bool, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID string) error
	GetPlaylistSongs(ctx context.Context, playlistID string) (Detail, error)
	DeleteSongFromPlaylist(ctx context.Context, playlistID, songID string) error

	AddActivity(ctx context.Context, a Activity) error
	GetActivities(ctx context.Context, playlistID string) ([]ActivityEntry, error)
}

type CollaborationStore interface {
	AddCollaboration(ctx context.Context, playlistID, userID string) (string, error)
	DeleteCollaboration(ctx context.Context, playlistID, userID string) error
	IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error)
}

// PostgresStore implements both Store and CollaborationStore.
type PostgresStore struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) AddPlaylist(ctx context.Context, name, owner string) (string, error) {
	id := "playlist-" + uuid.NewString()
	if _, err := s.db.Exec(ctx,
		`INSERT INTO playlists (id, name, owner) VALUES ($1, $2, $3)`,
		id, name, owner,
	); err != nil {
		return "", fmt.Errorf("insert playlist: %w", err)
	}
	return id, nil
}

// GetPlaylists lists playlists the user owns or collaborates on, once each.
func (s *PostgresStore) GetPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT p.id, p.name, u.username
		FROM playlists p
		JOIN users u ON u.id = p.owner
		LEFT JOIN collaborations c ON c.playlist_id = p.id
		WHERE p.owner = $1 OR c.user_id = $1
		ORDER BY p.name, p.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var pl Playlist
		if err := rows.Scan(&pl.ID, &pl.Name, &pl.Username); err != nil {
			return nil, fmt.Errorf("list playlists scan: %w", err)
		}
		playlists = append(playlists, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list playlists rows: %w", err)
	}
	return playlists, nil
}

// DeletePlaylist drops the activity log and then the playlist in one
// transaction. Song links and collaborations cascade.
func (s *PostgresStore) DeletePlaylist(ctx context.Context, id string) error {
	return database.InTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM playlist_song_activities WHERE playlist_id = $1`, id); err != nil {
			return fmt.Errorf("delete activities: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete playlist: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("failed to delete playlist, id not found")
		}
		return nil
	})
}

func (s *PostgresStore) PlaylistOwner(ctx context.Context, id string) (string, error) {
	var owner string
	err := s.db.QueryRow(ctx, `SELECT owner FROM playlists WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.NotFound("playlist not found")
	}
	if err != nil {
		return "", fmt.Errorf("get playlist owner: %w", err)
	}
	return owner, nil
}

func (s *PostgresStore) HasSong(ctx context.Context, playlistID, songID string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2)`,
		playlistID, songID,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("check playlist song: %w", err)
	}
	return ok, nil
}

func (s *PostgresStore) AddSongToPlaylist(ctx context.Context, playlistID, songID string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO playlist_songs (id, playlist_id, song_id) VALUES ($1, $2, $3)`,
		"playlistsong-"+uuid.NewString(), playlistID, songID,
	)
	switch {
	case database.IsForeignKeyViolation(err):
		return apperr.NotFound("song not found")
	case database.IsUniqueViolation(err):
		return apperr.Invariant("song is already in the playlist")
	case err != nil:
		return fmt.Errorf("insert playlist song: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPlaylistSongs(ctx context.Context, playlistID string) (Detail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, u.username, s.id, s.title, s.performer
		FROM playlists p
		JOIN users u ON u.id = p.owner
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		LEFT JOIN songs s ON s.id = ps.song_id
		WHERE p.id = $1
		ORDER BY s.title
	`, playlistID)
	if err != nil {
		return Detail{}, fmt.Errorf("get playlist songs: %w", err)
	}
	defer rows.Close()

	var (
		d     Detail
		found bool
	)
	d.Songs = []Song{}
	for rows.Next() {
		var id, title, performer *string
		if err := rows.Scan(&d.ID, &d.Name, &d.Username, &id, &title, &performer); err != nil {
			return Detail{}, fmt.Errorf("get playlist songs scan: %w", err)
		}
		found = true
		if id != nil && title != nil && performer != nil {
			d.Songs = append(d.Songs, Song{ID: *id, Title: *title, Performer: *performer})
		}
	}
	if err := rows.Err(); err != nil {
		return Detail{}, fmt.Errorf("get playlist songs rows: %w", err)
	}
	if !found {
		return Detail{}, apperr.NotFound("playlist not found")
	}
	return d, nil
}

func (s *PostgresStore) DeleteSongFromPlaylist(ctx context.Context, playlistID, songID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID,
	)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("song not found in playlist")
	}
	return nil
}

func (s *PostgresStore) AddActivity(ctx context.Context, a Activity) error {
	if a.Action != ActionAdd && a.Action != ActionDelete {
		return fmt.Errorf("unknown playlist action %q", a.Action)
	}
	if _, err := s.db.Exec(ctx, `
		INSERT INTO playlist_song_activities (id, playlist_id, song_id, user_id, action, time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "activity-"+uuid.NewString(), a.PlaylistID, a.SongID, a.UserID, a.Action, s.now().UTC()); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// GetActivities returns the playlist's history oldest first. An empty
// history is reported as not found.
func (s *PostgresStore) GetActivities(ctx context.Context, playlistID string) ([]ActivityEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.username, s.title, a.action, a.time
		FROM playlist_song_activities a
		JOIN users u ON u.id = a.user_id
		JOIN songs s ON s.id = a.song_id
		WHERE a.playlist_id = $1
		ORDER BY a.time
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.Username, &e.Title, &e.Action, &e.Time); err != nil {
			return nil, fmt.Errorf("list activities scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities rows: %w", err)
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("playlist activities not found")
	}
	return out, nil
}

func (s *PostgresStore) AddCollaboration(ctx context.Context, playlistID, userID string) (string, error) {
	id := "collab-" + uuid.NewString()
	_, err := s.db.Exec(ctx,
		`INSERT INTO collaborations (id, playlist_id, user_id) VALUES ($1, $2, $3)`,
		id, playlistID, userID,
	)
	switch {
	case database.IsUniqueViolation(err):
		return "", apperr.Invariant("user is already a collaborator")
	case database.IsForeignKeyViolation(err):
		return "", apperr.NotFound("playlist or user not found")
	case err != nil:
		return "", fmt.Errorf("insert collaboration: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM collaborations WHERE playlist_id = $1 AND user_id = $2`,
		playlistID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete collaboration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Invariant("failed to delete collaboration")
	}
	return nil
}

func (s *PostgresStore) IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM collaborations WHERE playlist_id = $1 AND user_id = $2)`,
		playlistID, userID,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("check collaboration: %w", err)
	}
	return ok, nil
}
