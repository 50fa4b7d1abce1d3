package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	ioutils "saavnbot/internal/io"
	"saavnbot/internal/model"
	"saavnbot/internal/saavn"
)

var (
	// ErrTooSmall reports an output below the plausible-audio floor,
	// usually an error page saved as audio.
	ErrTooSmall = errors.New("output file too small")

	// ErrTooLarge reports an output above the delivery ceiling.
	ErrTooLarge = errors.New("output file too large")
)

const (
	minOutputSize = 1024
	maxOutputSize = 100 << 20
)

// Catalog is the slice of the catalog client the pipeline needs.
type Catalog interface {
	GetSong(ctx context.Context, songID string) (*model.SongDetail, error)
	DownloadFile(ctx context.Context, fileURL, destPath string, onProgress func(written, total int64)) (int64, error)
}

// Transcoder converts downloaded source audio into MP3.
type Transcoder interface {
	Transcode(ctx context.Context, sourcePath, destPath string, bitrateKbps int) error
}

// Tagger embeds ID3 tags into the produced MP3.
type Tagger interface {
	Embed(mp3Path string, tags model.TagSet, artwork []byte) error
}

// ArtworkFetcher fetches and normalizes cover art.
type ArtworkFetcher interface {
	Process(ctx context.Context, url string) ([]byte, error)
}

// Result describes a finished download ready for delivery.
type Result struct {
	// Path is the produced MP3 on disk. The caller owns the file and
	// removes it after delivery.
	Path string

	// FileName is the sanitized display name, extension included.
	FileName string

	Tags     model.TagSet
	Duration int
	Bitrate  saavn.Bitrate
	Size     int64
}

// Pipeline runs a track from catalog lookup to a tagged, validated MP3.
//
// One Run call is one download. Stages execute strictly in order; the
// first failing stage aborts the run, with two exceptions: artwork
// failures degrade to an untagged cover, and cleanup always happens.
//
// Example:
//
//	p := pipeline.New(catalog, transcoder, tagger, artwork, dir, logger)
//	res, err := p.Run(ctx, "song1", saavn.Bitrate320, func(s pipeline.Stage) {
//	    log.Infow("progress", "stage", s)
//	})
type Pipeline struct {
	catalog     Catalog
	transcoder  Transcoder
	tagger      Tagger
	artwork     ArtworkFetcher
	downloadDir string
	log         *zap.SugaredLogger
}

// New creates a Pipeline writing its working files under downloadDir.
func New(catalog Catalog, transcoder Transcoder, tagger Tagger, artwork ArtworkFetcher, downloadDir string, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		catalog:     catalog,
		transcoder:  transcoder,
		tagger:      tagger,
		artwork:     artwork,
		downloadDir: downloadDir,
		log:         log,
	}
}

// Run downloads songID at the requested bitrate and returns the produced
// file. onProgress, if non-nil, is called at the start of each stage.
//
// The source working file is always removed before Run returns. The MP3
// is removed too when Run fails; on success it is handed to the caller
// through Result.Path.
func (p *Pipeline) Run(ctx context.Context, songID string, requested saavn.Bitrate, onProgress func(Stage)) (res *Result, err error) {
	notify := func(s Stage) {
		if onProgress != nil {
			onProgress(s)
		}
	}

	notify(StageResolvingQuality)
	detail, err := p.catalog.GetSong(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("look up song: %w", err)
	}

	sourceURL, actual, err := saavn.BuildQualityMap(detail.Downloads).Resolve(requested)
	if err != nil {
		return nil, fmt.Errorf("resolve quality for %q: %w", detail.Title, err)
	}
	if actual != requested {
		p.log.Infow("bitrate substituted", "song", detail.Title, "requested", requested, "actual", actual)
	}

	sourcePath := ioutils.TempFilePath(p.downloadDir, ".m4a")
	destPath := ioutils.TempFilePath(p.downloadDir, ".mp3")
	defer func() {
		p.removeQuietly(sourcePath)
		if err != nil {
			p.removeQuietly(destPath)
		}
	}()

	notify(StageFetchingSource)
	if _, err = p.catalog.DownloadFile(ctx, sourceURL, sourcePath, nil); err != nil {
		return nil, fmt.Errorf("fetch source audio: %w", err)
	}

	notify(StageTranscoding)
	if err = p.transcoder.Transcode(ctx, sourcePath, destPath, actual.Kbps()); err != nil {
		return nil, fmt.Errorf("transcode %q: %w", detail.Title, err)
	}

	notify(StageBuildingTagSet)
	tags := model.BuildTagSet(detail)

	notify(StageFetchingArtwork)
	var cover []byte
	if imageURL := model.BestImageURL(detail.Images); imageURL != "" {
		// Artwork is best-effort: a failed cover never fails the run.
		if cover, err = p.artwork.Process(ctx, imageURL); err != nil {
			p.log.Warnw("continuing without artwork", "song", detail.Title, "error", err)
			cover, err = nil, nil
		}
	}

	notify(StageEmbeddingTags)
	if err = p.tagger.Embed(destPath, tags, cover); err != nil {
		return nil, fmt.Errorf("embed tags: %w", err)
	}

	notify(StageValidatingOutput)
	info, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}
	if info.Size() < minOutputSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, info.Size())
	}
	if info.Size() > maxOutputSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	return &Result{
		Path:     destPath,
		FileName: ioutils.SanitizeFileName(fmt.Sprintf("%s - %s", detail.Title, detail.ArtistString())) + ".mp3",
		Tags:     tags,
		Duration: detail.Duration,
		Bitrate:  actual,
		Size:     info.Size(),
	}, nil
}

// removeQuietly deletes a working file, logging rather than surfacing
// failures: cleanup must never mask the pipeline outcome.
func (p *Pipeline) removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.log.Warnw("temp file not removed", "path", path, "error", err)
	}
}
