package model

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultComment is written to the comment frame when a song carries no
// identifying fields at all.
const DefaultComment = "Downloaded via saavnbot"

// yearPattern matches a plausible 4-digit release year inside a free-form
// year field, e.g. "2015 (Remastered)".
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// languageGenres maps catalog language values to display genres. Languages
// outside the table fall back to the title-cased raw value.
var languageGenres = map[string]string{
	"hindi":     "Hindi",
	"tamil":     "Tamil",
	"telugu":    "Telugu",
	"malayalam": "Malayalam",
	"kannada":   "Kannada",
	"english":   "English",
	"punjabi":   "Punjabi",
}

// TagSet is the resolved set of descriptive fields to embed into an MP3.
//
// A TagSet is built fresh for every download and never merged with a
// previous file's tags; the tagger clears any existing tag container before
// writing these values.
type TagSet struct {
	// Title is the track title (TIT2).
	Title string

	// Artist is the comma-joined artist string (TPE1).
	Artist string

	// AlbumArtist defaults to Artist (TPE2).
	AlbumArtist string

	// Album is the album name (TALB).
	Album string

	// Year is the extracted 4-digit year, or empty when the raw year field
	// contained no 19xx/20xx pattern (TYER + TDRC).
	Year string

	// Genre is the language-derived genre, or empty when the song carries
	// no language (TCON).
	Genre string

	// Comment is the free-text comment; always non-empty (COMM).
	Comment string

	// Composer is the composer credit, when available (TCOM).
	Composer string
}

// BuildTagSet derives the tag fields for a song.
//
// Field derivation:
//   - Artist and AlbumArtist are the joined primary artist string.
//   - Year is extracted by 4-digit pattern match; omitted when absent.
//   - Genre comes from the fixed language table, else the title-cased
//     language, else empty.
//   - Comment concatenates identifier, source URL (truncated) and copyright,
//     or falls back to DefaultComment.
func BuildTagSet(song *SongDetail) TagSet {
	artist := song.ArtistString()

	tags := TagSet{
		Title:       song.Title,
		Artist:      artist,
		AlbumArtist: artist,
		Album:       song.Album,
		Year:        ExtractYear(song.Year),
		Genre:       genreForLanguage(song.Language),
		Comment:     buildComment(song),
		Composer:    strings.TrimSpace(song.Music),
	}
	return tags
}

// ExtractYear pulls a 4-digit 19xx/20xx year out of a raw year field.
// Returns an empty string when no such pattern is present.
func ExtractYear(raw string) string {
	return yearPattern.FindString(raw)
}

func genreForLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return ""
	}
	if genre, ok := languageGenres[strings.ToLower(language)]; ok {
		return genre
	}
	lower := strings.ToLower(language)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func buildComment(song *SongDetail) string {
	var parts []string
	if song.ID != "" {
		parts = append(parts, fmt.Sprintf("ID: %s", song.ID))
	}
	if song.URL != "" {
		url := song.URL
		if len(url) > 50 {
			url = url[:50]
		}
		parts = append(parts, fmt.Sprintf("URL: %s", url))
	}
	if song.Copyright != "" {
		parts = append(parts, fmt.Sprintf("© %s", song.Copyright))
	}
	if len(parts) == 0 {
		return DefaultComment
	}
	return strings.Join(parts, " | ")
}
