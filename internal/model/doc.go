// Package model defines the core data structures used throughout saavnbot.
//
// # Songs
//
// SongSummary is a search result row; SongDetail is the full catalog record
// including image and download descriptor lists:
//
//	detail, err := catalog.GetSong(ctx, id)
//	fmt.Println(detail.Title, detail.ArtistString())
//
// # Tags
//
// TagSet is the set of descriptive fields embedded into the produced MP3.
// It is derived once per download from a SongDetail:
//
//	tags := model.BuildTagSet(detail)
//	// tags.Year is "" unless the raw year field contained 19xx/20xx
//	// tags.Comment is always non-empty
//
// # Helpers
//
// BestImageURL picks the highest-resolution cover image; FormatDuration and
// FormatFileSize render values for chat messages.
package model
