package playlist

import (
	"context"

	"github.com/stretchr/testify/mock"

	"openmusic-service/internal/auth"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddPlaylist(ctx context.Context, name, owner string) (string, error) {
	args := m.Called(ctx, name, owner)
	return args.String(0), args.Error(1)
}

func (m *MockStore) GetPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]Playlist), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) DeletePlaylist(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) PlaylistOwner(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockStore) HasSong(ctx context.Context, playlistID, songID string) (bool, error) {
	args := m.Called(ctx, playlistID, songID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AddSongToPlaylist(ctx context.Context, playlistID, songID string) error {
	return m.Called(ctx, playlistID, songID).Error(0)
}

func (m *MockStore) GetPlaylistSongs(ctx context.Context, playlistID string) (Detail, error) {
	args := m.Called(ctx, playlistID)
	return args.Get(0).(Detail), args.Error(1)
}

func (m *MockStore) DeleteSongFromPlaylist(ctx context.Context, playlistID, songID string) error {
	return m.Called(ctx, playlistID, songID).Error(0)
}

func (m *MockStore) AddActivity(ctx context.Context, a Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockStore) GetActivities(ctx context.Context, playlistID string) ([]ActivityEntry, error) {
	args := m.Called(ctx, playlistID)
	if v := args.Get(0); v != nil {
		return v.([]ActivityEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCollaborationStore struct {
	mock.Mock
}

func (m *MockCollaborationStore) AddCollaboration(ctx context.Context, playlistID, userID string) (string, error) {
	args := m.Called(ctx, playlistID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockCollaborationStore) DeleteCollaboration(ctx context.Context, playlistID, userID string) error {
	return m.Called(ctx, playlistID, userID).Error(0)
}

func (m *MockCollaborationStore) IsCollaborator(ctx context.Context, playlistID, userID string) (bool, error) {
	args := m.Called(ctx, playlistID, userID)
	return args.Bool(0), args.Error(1)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindUserByID(ctx context.Context, id string) (auth.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(auth.User), args.Error(1)
}
