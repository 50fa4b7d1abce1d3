// Package saavn provides the catalog client and quality resolution for a
// JioSaavn-style music API.
//
// The package handles two concerns:
//
//  1. Talking to the catalog: song search, detail lookup, and streaming
//     file download, with the transport retry policy owned by
//     internal/http.
//  2. Quality resolution: classifying the catalog's free-form quality
//     strings into canonical bitrate labels and resolving a requested
//     bitrate to the best available URL.
//
// # Searching and Fetching
//
//	catalog := saavn.NewClient(cfg.APIBaseURL)
//	songs, err := catalog.SearchSongs(ctx, "kesariya", 1, 10)
//	detail, err := catalog.GetSong(ctx, songs[0].ID)
//
// # Quality Resolution
//
//	qm := saavn.BuildQualityMap(detail.Downloads)
//	url, actual, err := qm.Resolve(saavn.Bitrate320)
//	if errors.Is(err, saavn.ErrUnavailable) {
//	    // song has no usable download URL at all
//	}
//
// Resolution is deterministic: an exact label wins; a missing 128kbps
// request substitutes 96kbps when present (the only special case); any
// other miss takes the highest bitrate available.
package saavn
