// Package playlist owns playlists, their songs, collaborators and the
// activity log, and decides who may read or change a playlist.
package playlist

import "time"

const (
	ActionAdd    = "add"
	ActionDelete = "delete"
)

type Playlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type Song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// Detail is a playlist with its songs ordered by title.
type Detail struct {
	Playlist
	Songs []Song `json:"songs"`
}

type Activity struct {
	PlaylistID string
	SongID     string
	UserID     string
	Action     string
}

type ActivityEntry struct {
	Username string    `json:"username"`
	Title    string    `json:"title"`
	Action   string    `json:"action"`
	Time     time.Time `json:"time"`
}

type playlistRequest struct {
	Name string `json:"name" validate:"required"`
}

type playlistSongRequest struct {
	SongID string `json:"songId" validate:"required"`
}

type collaborationRequest struct {
	PlaylistID string `json:"playlistId" validate:"required"`
	UserID     string `json:"userId" validate:"required"`
}
