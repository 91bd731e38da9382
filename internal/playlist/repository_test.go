package playlist

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openmusic-service/internal/apperr"
)

func ptr[T any](v T) *T { return &v }

func setupMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestGetPlaylists(t *testing.T) {
	mock := setupMockPool(t)
	store := NewPostgresStore(mock)

	mock.ExpectQuery("SELECT DISTINCT p.id, p.name, u.username").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "username"}).
			AddRow("playlist-1", "Drive", "dicoding").
			AddRow("playlist-2", "Focus", "other"))

	got, err := store.GetPlaylists(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []Playlist{
		{ID: "playlist-1", Name: "Drive", Username: "dicoding"},
		{ID: "playlist-2", Name: "Focus", Username: "other"},
	}, got)
}

func TestGetPlaylistsEmpty(t *testing.T) {
	mock := setupMockPool(t)
	store := NewPostgresStore(mock)

	mock.ExpectQuery("FROM playlists p").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "username"}))

	got, err := store.GetPlaylists(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeletePlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM playlist_song_activities").
			WithArgs("playlist-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		mock.ExpectExec("DELETE FROM playlists").
			WithArgs("playlist-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, store.DeletePlaylist(ctx, "playlist-1"))
	})

	t.Run("Missing", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM playlist_song_activities").
			WithArgs("playlist-x").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("DELETE FROM playlists").
			WithArgs("playlist-x").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		err := store.DeletePlaylist(ctx, "playlist-x")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestPlaylistOwnerNotFound(t *testing.T) {
	mock := setupMockPool(t)
	store := NewPostgresStore(mock)

	mock.ExpectQuery("SELECT owner FROM playlists").
		WithArgs("playlist-x").
		WillReturnRows(pgxmock.NewRows([]string{"owner"}))

	_, err := store.PlaylistOwner(context.Background(), "playlist-x")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAddSongToPlaylistErrors(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		check func(error) bool
	}{
		{"UnknownSong", "23503", apperr.IsNotFound},
		{"Duplicate", "23505", apperr.IsInvariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockPool(t)
			store := NewPostgresStore(mock)

			mock.ExpectExec("INSERT INTO playlist_songs").
				WithArgs(pgxmock.AnyArg(), "playlist-1", "song-1").
				WillReturnError(&pgconn.PgError{Code: tt.code})

			err := store.AddSongToPlaylist(context.Background(), "playlist-1", "song-1")
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

var songCols = []string{"id", "name", "username", "song_id", "title", "performer"}

func TestGetPlaylistSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("WithSongs", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("FROM playlists p.*LEFT JOIN playlist_songs").
			WithArgs("playlist-1").
			WillReturnRows(pgxmock.NewRows(songCols).
				AddRow("playlist-1", "Drive", "dicoding", ptr("song-1"), ptr("Fix You"), ptr("Coldplay")).
				AddRow("playlist-1", "Drive", "dicoding", ptr("song-2"), ptr("Yellow"), ptr("Coldplay")))

		d, err := store.GetPlaylistSongs(ctx, "playlist-1")
		require.NoError(t, err)
		assert.Equal(t, "Drive", d.Name)
		assert.Equal(t, "dicoding", d.Username)
		require.Len(t, d.Songs, 2)
		assert.Equal(t, "Yellow", d.Songs[1].Title)
	})

	t.Run("Empty", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("FROM playlists p").
			WithArgs("playlist-1").
			WillReturnRows(pgxmock.NewRows(songCols).
				AddRow("playlist-1", "Drive", "dicoding", (*string)(nil), (*string)(nil), (*string)(nil)))

		d, err := store.GetPlaylistSongs(ctx, "playlist-1")
		require.NoError(t, err)
		assert.NotNil(t, d.Songs)
		assert.Empty(t, d.Songs)
	})

	t.Run("Missing", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("FROM playlists p").
			WithArgs("playlist-x").
			WillReturnRows(pgxmock.NewRows(songCols))

		_, err := store.GetPlaylistSongs(ctx, "playlist-x")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteSongFromPlaylistMissing(t *testing.T) {
	mock := setupMockPool(t)
	store := NewPostgresStore(mock)

	mock.ExpectExec("DELETE FROM playlist_songs").
		WithArgs("playlist-1", "song-9").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := store.DeleteSongFromPlaylist(context.Background(), "playlist-1", "song-9")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAddActivity(t *testing.T) {
	mock := setupMockPool(t)
	store := NewPostgresStore(mock)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	mock.ExpectExec("INSERT INTO playlist_song_activities").
		WithArgs(pgxmock.AnyArg(), "playlist-1", "song-1", "user-1", ActionAdd, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.AddActivity(context.Background(), Activity{
		PlaylistID: "playlist-1", SongID: "song-1", UserID: "user-1", Action: ActionAdd,
	}))

	err := store.AddActivity(context.Background(), Activity{Action: "move"})
	assert.Error(t, err)
}

func TestGetActivities(t *testing.T) {
	ctx := context.Background()
	cols := []string{"username", "title", "action", "time"}
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Ordered", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("FROM playlist_song_activities a.*ORDER BY a.time").
			WithArgs("playlist-1").
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow("dicoding", "Fix You", ActionAdd, first).
				AddRow("dicoding", "Fix You", ActionDelete, first.Add(time.Minute)))

		got, err := store.GetActivities(ctx, "playlist-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ActionAdd, got[0].Action)
		assert.Equal(t, ActionDelete, got[1].Action)
	})

	t.Run("NoHistory", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("FROM playlist_song_activities a").
			WithArgs("playlist-1").
			WillReturnRows(pgxmock.NewRows(cols))

		_, err := store.GetActivities(ctx, "playlist-1")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCollaborations(t *testing.T) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectExec("INSERT INTO collaborations").
			WithArgs(pgxmock.AnyArg(), "playlist-1", "user-2").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		id, err := store.AddCollaboration(ctx, "playlist-1", "user-2")
		require.NoError(t, err)
		assert.Regexp(t, "^collab-", id)
	})

	t.Run("AddDuplicate", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectExec("INSERT INTO collaborations").
			WithArgs(pgxmock.AnyArg(), "playlist-1", "user-2").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := store.AddCollaboration(ctx, "playlist-1", "user-2")
		assert.True(t, apperr.IsInvariant(err))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectExec("DELETE FROM collaborations").
			WithArgs("playlist-1", "user-2").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := store.DeleteCollaboration(ctx, "playlist-1", "user-2")
		assert.True(t, apperr.IsInvariant(err))
	})

	t.Run("IsCollaborator", func(t *testing.T) {
		mock := setupMockPool(t)
		store := NewPostgresStore(mock)

		mock.ExpectQuery("SELECT EXISTS.*FROM collaborations").
			WithArgs("playlist-1", "user-2").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := store.IsCollaborator(ctx, "playlist-1", "user-2")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
