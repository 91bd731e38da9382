package catalog

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockAlbumStore struct {
	mock.Mock
}

func (m *MockAlbumStore) AddAlbum(ctx context.Context, in AlbumInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockAlbumStore) GetAlbum(ctx context.Context, id string) (AlbumDetail, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(AlbumDetail), args.Error(1)
}

func (m *MockAlbumStore) EditAlbum(ctx context.Context, id string, in AlbumInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockAlbumStore) DeleteAlbum(ctx context.Context, id string) (DeletedAlbum, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(DeletedAlbum), args.Error(1)
}

func (m *MockAlbumStore) AlbumExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlbumStore) AlbumCover(ctx context.Context, id string) (*string, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAlbumStore) SetAlbumCover(ctx context.Context, id, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type MockSongStore struct {
	mock.Mock
}

func (m *MockSongStore) AddSong(ctx context.Context, in SongInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *MockSongStore) ListSongs(ctx context.Context, f SongFilter) ([]SongSummary, error) {
	args := m.Called(ctx, f)
	if v := args.Get(0); v != nil {
		return v.([]SongSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSongStore) GetSong(ctx context.Context, id string) (Song, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Song), args.Error(1)
}

func (m *MockSongStore) EditSong(ctx context.Context, id string, in SongInput) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *MockSongStore) DeleteSong(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLikeStore struct {
	mock.Mock
}

func (m *MockLikeStore) HasLiked(ctx context.Context, userID, albumID string) (bool, error) {
	args := m.Called(ctx, userID, albumID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeStore) AddLike(ctx context.Context, userID, albumID string) error {
	return m.Called(ctx, userID, albumID).Error(0)
}

func (m *MockLikeStore) DeleteLike(ctx context.Context, userID, albumID string) error {
	return m.Called(ctx, userID, albumID).Error(0)
}

func (m *MockLikeStore) CountLikes(ctx context.Context, albumID string) (int, error) {
	args := m.Called(ctx, albumID)
	return args.Int(0), args.Error(1)
}

type MockCoverStorage struct {
	mock.Mock
}

func (m *MockCoverStorage) Store(r io.Reader, originalName string) (string, error) {
	args := m.Called(r, originalName)
	return args.String(0), args.Error(1)
}

func (m *MockCoverStorage) Remove(url string) {
	m.Called(url)
}
