// Package catalog serves albums, songs, album covers and album likes.
package catalog

type Album struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	CoverURL *string `json:"coverUrl"`
}

// AlbumDetail is an album with its songs ordered by title.
type AlbumDetail struct {
	Album
	Songs []SongSummary `json:"songs"`
}

type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

type Song struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Performer string  `json:"performer"`
	Genre     string  `json:"genre"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

// SongFilter matches songs whose title and performer contain the given
// substrings, case-insensitively. Empty fields match everything.
type SongFilter struct {
	Title     string
	Performer string
}

type AlbumInput struct {
	Name string `json:"name" validate:"required"`
	Year int    `json:"year" validate:"required,release_year"`
}

type SongInput struct {
	Title     string  `json:"title" validate:"required"`
	Year      int     `json:"year" validate:"required,release_year"`
	Genre     string  `json:"genre" validate:"required"`
	Performer string  `json:"performer" validate:"required"`
	Duration  *int    `json:"duration" validate:"omitempty,gte=0"`
	AlbumID   *string `json:"albumId" validate:"omitnil,min=1"`
}

// DeletedAlbum describes what went away with an album.
type DeletedAlbum struct {
	SongIDs  []string
	CoverURL *string
}
