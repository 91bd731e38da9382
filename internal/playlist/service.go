package playlist

import (
	"context"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/auth"
)

// UserLookup resolves user ids. *auth.PostgresUsers satisfies it.
type UserLookup interface {
	FindUserByID(ctx context.Context, id string) (auth.User, error)
}

type Service struct {
	store   Store
	collabs CollaborationStore
	users   UserLookup
}

func NewService(store Store, collabs CollaborationStore, users UserLookup) *Service {
	return &Service{store: store, collabs: collabs, users: users}
}

// VerifyOwner fails with NotFound for a missing playlist and Authorization
// when userID is not the owner.
func (s *Service) VerifyOwner(ctx context.Context, playlistID, userID string) error {
	owner, err := s.store.PlaylistOwner(ctx, playlistID)
	if err != nil {
		return err
	}
	if owner != userID {
		return apperr.Authorization("you are not allowed to access this resource")
	}
	return nil
}

// VerifyAccess lets the owner and collaborators through. A missing playlist
// is always NotFound; a non-owner without a collaboration gets the owner-check
// Authorization error.
func (s *Service) VerifyAccess(ctx context.Context, playlistID, userID string) error {
	err := s.VerifyOwner(ctx, playlistID, userID)
	if err == nil || !apperr.IsAuthorization(err) {
		return err
	}

	ok, cerr := s.collabs.IsCollaborator(ctx, playlistID, userID)
	if cerr != nil {
		return cerr
	}
	if ok {
		return nil
	}
	return err
}

func (s *Service) AddPlaylist(ctx context.Context, name, owner string) (string, error) {
	return s.store.AddPlaylist(ctx, name, owner)
}

func (s *Service) GetPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	return s.store.GetPlaylists(ctx, userID)
}

func (s *Service) DeletePlaylist(ctx context.Context, playlistID, userID string) error {
	if err := s.VerifyOwner(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.store.DeletePlaylist(ctx, playlistID)
}

// AddSong links a song and records an "add" activity. The link and the
// activity are separate statements.
func (s *Service) AddSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	exists, err := s.store.HasSong(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Invariant("song is already in the playlist")
	}

	if err := s.store.AddSongToPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}

	return s.store.AddActivity(ctx, Activity{
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     ActionAdd,
	})
}

func (s *Service) GetSongs(ctx context.Context, playlistID, userID string) (Detail, error) {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return Detail{}, err
	}
	return s.store.GetPlaylistSongs(ctx, playlistID)
}

func (s *Service) RemoveSong(ctx context.Context, playlistID, songID, userID string) error {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteSongFromPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}

	return s.store.AddActivity(ctx, Activity{
		PlaylistID: playlistID,
		SongID:     songID,
		UserID:     userID,
		Action:     ActionDelete,
	})
}

func (s *Service) Activities(ctx context.Context, playlistID, userID string) ([]ActivityEntry, error) {
	if err := s.VerifyAccess(ctx, playlistID, userID); err != nil {
		return nil, err
	}
	return s.store.GetActivities(ctx, playlistID)
}

// AddCollaborator requires the target user to exist and the caller to own
// the playlist.
func (s *Service) AddCollaborator(ctx context.Context, playlistID, collaboratorID, ownerID string) (string, error) {
	if _, err := s.users.FindUserByID(ctx, collaboratorID); err != nil {
		return "", err
	}
	if err := s.VerifyOwner(ctx, playlistID, ownerID); err != nil {
		return "", err
	}
	return s.collabs.AddCollaboration(ctx, playlistID, collaboratorID)
}

func (s *Service) RemoveCollaborator(ctx context.Context, playlistID, collaboratorID, ownerID string) error {
	if err := s.VerifyOwner(ctx, playlistID, ownerID); err != nil {
		return err
	}
	return s.collabs.DeleteCollaboration(ctx, playlistID, collaboratorID)
}
