//go:build integration

package playlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/auth"
	"openmusic-service/internal/catalog"
	"openmusic-service/internal/database"
	"openmusic-service/internal/playlist"
)

func setupPostgres(t *testing.T) database.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("openmusic"),
		postgres.WithUsername("openmusic"),
		postgres.WithPassword("openmusic"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, auth.AutoMigrate(ctx, pool))
	require.NoError(t, catalog.AutoMigrate(ctx, pool))
	require.NoError(t, playlist.AutoMigrate(ctx, pool))
	return pool
}

func TestPlaylistLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)

	users := auth.NewPostgresUsers(db, 4)
	owner, err := users.AddUser(ctx, "owner", "secret", "Owner")
	require.NoError(t, err)
	collaborator, err := users.AddUser(ctx, "collab", "secret", "Collaborator")
	require.NoError(t, err)
	stranger, err := users.AddUser(ctx, "stranger", "secret", "Stranger")
	require.NoError(t, err)

	albums := catalog.NewPostgresAlbums(db)
	songs := catalog.NewPostgresSongs(db)
	albumID, err := albums.AddAlbum(ctx, catalog.AlbumInput{Name: "Viva", Year: 2008})
	require.NoError(t, err)
	songID, err := songs.AddSong(ctx, catalog.SongInput{
		Title: "Lovers", Year: 2008, Genre: "Rock", Performer: "Coldplay", AlbumID: &albumID,
	})
	require.NoError(t, err)

	store := playlist.NewPostgresStore(db)
	svc := playlist.NewService(store, store, users)

	playlistID, err := svc.AddPlaylist(ctx, "Drive", owner)
	require.NoError(t, err)

	_, err = svc.AddCollaborator(ctx, playlistID, collaborator, owner)
	require.NoError(t, err)

	require.NoError(t, svc.AddSong(ctx, playlistID, songID, collaborator))
	assert.True(t, apperr.IsInvariant(svc.AddSong(ctx, playlistID, songID, owner)))
	assert.True(t, apperr.IsAuthorization(svc.AddSong(ctx, playlistID, songID, stranger)))

	detail, err := svc.GetSongs(ctx, playlistID, owner)
	require.NoError(t, err)
	require.Len(t, detail.Songs, 1)
	assert.Equal(t, "owner", detail.Username)

	lists, err := svc.GetPlaylists(ctx, collaborator)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	require.NoError(t, svc.RemoveSong(ctx, playlistID, songID, owner))
	activities, err := svc.Activities(ctx, playlistID, collaborator)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, playlist.ActionAdd, activities[0].Action)
	assert.Equal(t, "collab", activities[0].Username)
	assert.Equal(t, playlist.ActionDelete, activities[1].Action)

	guest, err := users.AddUser(ctx, "guest", "secret", "Guest")
	require.NoError(t, err)
	_, err = svc.AddCollaborator(ctx, playlistID, guest, owner)
	require.NoError(t, err)
	require.NoError(t, svc.VerifyAccess(ctx, playlistID, guest))
	require.NoError(t, svc.RemoveCollaborator(ctx, playlistID, guest, owner))
	assert.True(t, apperr.IsAuthorization(svc.VerifyAccess(ctx, playlistID, guest)))

	// Removing the collaborator's account drops only the collaboration.
	require.NoError(t, users.DeleteUser(ctx, collaborator))
	ok, err := store.IsCollaborator(ctx, playlistID, collaborator)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.PlaylistOwner(ctx, playlistID)
	require.NoError(t, err)

	// Deleting the album cascades to its songs.
	_, err = albums.DeleteAlbum(ctx, albumID)
	require.NoError(t, err)
	_, err = songs.GetSong(ctx, songID)
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.DeletePlaylist(ctx, playlistID, owner))
	_, err = store.PlaylistOwner(ctx, playlistID)
	assert.True(t, apperr.IsNotFound(err))
}
