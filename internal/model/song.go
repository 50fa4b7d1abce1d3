package model

import "strings"

// SongSummary is one row of a catalog search result.
//
// It carries just enough to render a selection list and to request the full
// detail later via ID.
type SongSummary struct {
	// ID is the opaque catalog identifier for the song.
	ID string

	// Title is the song title.
	Title string

	// Artists is the comma-joined primary artist names.
	Artists string

	// Album is the album name.
	Album string

	// Duration is the track length in seconds.
	Duration int

	// Year is the raw release year field as returned by the catalog.
	// May contain trailing text such as "2015 (Remastered)".
	Year string
}

// ImageLink is one entry of a song's cover image list.
type ImageLink struct {
	// Quality is the catalog's dimension label, e.g. "500x500".
	Quality string

	// URL is the image location.
	URL string
}

// DownloadLink is one entry of a song's download descriptor list.
type DownloadLink struct {
	// Quality is the catalog's raw quality string, e.g. "320kbps".
	Quality string

	// URL is the audio file location.
	URL string
}

// SongDetail is the full catalog record for a single song.
//
// A SongDetail is immutable once fetched. It is owned by the pipeline run
// that fetched it and discarded at the end of the run; nothing caches it.
type SongDetail struct {
	// ID is the opaque catalog identifier for the song.
	ID string

	// Title is the song title.
	Title string

	// Artists is the ordered list of primary artist names.
	Artists []string

	// Album is the album name.
	Album string

	// Duration is the track length in seconds.
	Duration int

	// Year is the raw release year field. May be empty or contain
	// surrounding text.
	Year string

	// Language is the catalog's language field, lower case. May be empty.
	Language string

	// Music is the composer credit. May be empty.
	Music string

	// Copyright is the rights holder string. May be empty.
	Copyright string

	// Label is the record label. May be empty.
	Label string

	// URL is the public catalog page for the song. May be empty.
	URL string

	// Explicit reports whether the catalog flags the song as explicit.
	Explicit bool

	// Images lists available cover images by dimension label.
	Images []ImageLink

	// Downloads lists available download descriptors by raw quality string.
	Downloads []DownloadLink
}

// ArtistString returns the comma-joined primary artists, capped at three
// names. Returns "Unknown Artist" when no artist name is present.
func (s *SongDetail) ArtistString() string {
	var names []string
	for _, name := range s.Artists {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(names, ", ")
}

// imageQualityRank orders dimension labels from best to worst.
var imageQualityRank = map[string]int{
	"500x500": 5,
	"480x480": 4,
	"300x300": 3,
	"150x150": 2,
	"50x50":   1,
}

// BestImageURL returns the URL of the highest-quality image in the list,
// or an empty string when the list is empty.
func BestImageURL(images []ImageLink) string {
	bestURL := ""
	bestRank := -1
	for _, img := range images {
		rank := imageQualityRank[img.Quality]
		if rank > bestRank {
			bestRank = rank
			bestURL = img.URL
		}
	}
	return bestURL
}
