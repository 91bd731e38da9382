package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"openmusic-service/internal/apperr"
	"openmusic-service/internal/cache"
)

// CoverStorage persists cover images and removes replaced ones.
type CoverStorage interface {
	Store(r io.Reader, originalName string) (string, error)
	Remove(url string)
}

// Service layers the cache and cover cleanup over the catalog stores. Every
// mutation of a cached row drops the matching key.
type Service struct {
	albums AlbumStore
	songs  SongStore
	likes  LikeStore
	cache  *cache.Aside
	covers CoverStorage
}

func NewService(albums AlbumStore, songs SongStore, likes LikeStore, aside *cache.Aside, covers CoverStorage) *Service {
	return &Service{
		albums: albums,
		songs:  songs,
		likes:  likes,
		cache:  aside,
		covers: covers,
	}
}

func (s *Service) AddAlbum(ctx context.Context, in AlbumInput) (string, error) {
	return s.albums.AddAlbum(ctx, in)
}

func (s *Service) GetAlbum(ctx context.Context, id string) (AlbumDetail, error) {
	return s.albums.GetAlbum(ctx, id)
}

func (s *Service) EditAlbum(ctx context.Context, id string, in AlbumInput) error {
	return s.albums.EditAlbum(ctx, id, in)
}

func (s *Service) DeleteAlbum(ctx context.Context, id string) error {
	gone, err := s.albums.DeleteAlbum(ctx, id)
	if err != nil {
		return err
	}

	keys := []string{cache.LikesKey(id)}
	for _, songID := range gone.SongIDs {
		keys = append(keys, cache.SongKey(songID))
	}
	s.cache.Invalidate(ctx, keys...)

	if gone.CoverURL != nil && s.covers != nil {
		s.covers.Remove(*gone.CoverURL)
	}
	return nil
}

// ReplaceCover stores a new cover for the album and points the album at it.
// The previous file is removed on a best-effort basis.
func (s *Service) ReplaceCover(ctx context.Context, albumID string, r io.Reader, filename, baseURL string) (string, error) {
	previous, err := s.albums.AlbumCover(ctx, albumID)
	if err != nil {
		return "", err
	}

	name, err := s.covers.Store(r, filename)
	if err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}

	url := baseURL + "/albums/covers/" + name
	if err := s.albums.SetAlbumCover(ctx, albumID, url); err != nil {
		s.covers.Remove(url)
		return "", err
	}

	if previous != nil {
		s.covers.Remove(*previous)
	}
	return url, nil
}

func (s *Service) AddSong(ctx context.Context, in SongInput) (string, error) {
	return s.songs.AddSong(ctx, in)
}

func (s *Service) ListSongs(ctx context.Context, f SongFilter) ([]SongSummary, error) {
	return s.songs.ListSongs(ctx, f)
}

// GetSong reads through the cache. The source reports where the song came
// from.
func (s *Service) GetSong(ctx context.Context, id string) (Song, cache.Source, error) {
	raw, src, err := s.cache.Fetch(ctx, cache.SongKey(id), func(ctx context.Context) (string, error) {
		song, err := s.songs.GetSong(ctx, id)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(song)
		if err != nil {
			return "", fmt.Errorf("encode song: %w", err)
		}
		return string(b), nil
	})
	if err != nil {
		return Song{}, src, err
	}

	var song Song
	if err := json.Unmarshal([]byte(raw), &song); err != nil {
		return Song{}, src, fmt.Errorf("decode cached song %s: %w", id, err)
	}
	return song, src, nil
}

func (s *Service) EditSong(ctx context.Context, id string, in SongInput) error {
	if err := s.songs.EditSong(ctx, id, in); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.SongKey(id))
	return nil
}

func (s *Service) DeleteSong(ctx context.Context, id string) error {
	if err := s.songs.DeleteSong(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.SongKey(id))
	return nil
}

func (s *Service) requireAlbum(ctx context.Context, albumID string) error {
	ok, err := s.albums.AlbumExists(ctx, albumID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("album not found")
	}
	return nil
}

func (s *Service) LikeAlbum(ctx context.Context, userID, albumID string) error {
	if err := s.requireAlbum(ctx, albumID); err != nil {
		return err
	}

	liked, err := s.likes.HasLiked(ctx, userID, albumID)
	if err != nil {
		return err
	}
	if liked {
		return apperr.Invariant("album already liked")
	}

	if err := s.likes.AddLike(ctx, userID, albumID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.LikesKey(albumID))
	return nil
}

func (s *Service) UnlikeAlbum(ctx context.Context, userID, albumID string) error {
	if err := s.requireAlbum(ctx, albumID); err != nil {
		return err
	}

	if err := s.likes.DeleteLike(ctx, userID, albumID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.LikesKey(albumID))
	return nil
}

func (s *Service) CountLikes(ctx context.Context, albumID string) (int, cache.Source, error) {
	if err := s.requireAlbum(ctx, albumID); err != nil {
		return 0, cache.SourceStore, err
	}

	raw, src, err := s.cache.Fetch(ctx, cache.LikesKey(albumID), func(ctx context.Context) (string, error) {
		n, err := s.likes.CountLikes(ctx, albumID)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	})
	if err != nil {
		return 0, src, err
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, src, fmt.Errorf("decode cached likes %s: %w", albumID, err)
	}
	return n, src, nil
}
