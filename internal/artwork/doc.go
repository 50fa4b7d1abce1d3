// Package artwork normalizes cover images for ID3 embedding.
//
// Covers arrive from the catalog in mixed formats and sizes. Processor
// fetches a cover under a hard 15 second bound and produces a baseline
// JPEG with a white background and a longest edge of at most 500px:
//
//	proc := artwork.NewProcessor(httpClient, logger)
//	cover, err := proc.Process(ctx, imageURL)
//
// Artwork is a best-effort enrichment: callers degrade to an untagged
// cover on any error rather than failing the download.
package artwork
