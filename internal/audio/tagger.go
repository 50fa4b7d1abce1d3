package audio

import (
	"errors"
	"fmt"
	"os"

	"github.com/bogem/id3v2"
	dhowden "github.com/dhowden/tag"

	"saavnbot/internal/model"
)

var (
	// ErrFileMissing reports that the MP3 to tag does not exist.
	ErrFileMissing = errors.New("mp3 file not found")

	// ErrVerification reports that no readable tag container was present
	// after a claimed successful write.
	ErrVerification = errors.New("tag verification failed")
)

// Tagger writes ID3 tags into produced MP3 files.
//
// Embedding is a full overwrite, never a merge: any existing tag frames
// are cleared before the new TagSet is written, so stale tags from a
// previous run on a reused path cannot leak through. Tags persist as
// ID3v2.3 for maximum downstream-player compatibility.
//
// Example:
//
//	tagger := audio.NewTagger()
//	err := tagger.Embed("/tmp/out.mp3", tags, artworkBytes)
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Embed writes the TagSet and optional front-cover artwork into the MP3 at
// mp3Path.
//
// Field writes are independently optional: an empty source value is
// skipped silently, except the comment frame which is always written
// (TagSet guarantees it a value). Pass nil artwork to embed no cover; any
// previously embedded cover is still removed by the overwrite.
//
// After saving, the file is re-opened through an independent tag reader;
// a missing or unreadable tag container yields ErrVerification.
func (t *Tagger) Embed(mp3Path string, tags model.TagSet, artwork []byte) error {
	if _, err := os.Stat(mp3Path); err != nil {
		return fmt.Errorf("%w: %s", ErrFileMissing, mp3Path)
	}

	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag container: %w", err)
	}

	// Full overwrite: drop whatever a previous run left behind.
	tag.DeleteAllFrames()
	tag.SetVersion(3)

	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	if tags.AlbumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, tags.AlbumArtist)
	}
	if tags.Album != "" {
		tag.SetAlbum(tags.Album)
	}
	if tags.Year != "" {
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, tags.Year)
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, tags.Year)
	}
	if tags.Genre != "" {
		tag.SetGenre(tags.Genre)
	}

	comment := tags.Comment
	if comment == "" {
		comment = model.DefaultComment
	}
	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "",
		Text:        comment,
	})

	if tags.Composer != "" {
		tag.AddTextFrame("TCOM", id3v2.EncodingUTF8, tags.Composer)
	}

	if artwork != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	if err := tag.Save(); err != nil {
		tag.Close()
		return fmt.Errorf("save tags: %w", err)
	}
	if err := tag.Close(); err != nil {
		return fmt.Errorf("close tag container: %w", err)
	}

	return t.verify(mp3Path)
}

// verify re-opens the file with a reader independent of the writer and
// confirms a tag container is present.
func (t *Tagger) verify(mp3Path string) error {
	f, err := os.Open(mp3Path)
	if err != nil {
		return fmt.Errorf("%w: reopen: %v", ErrVerification, err)
	}
	defer f.Close()

	if _, err := dhowden.ReadFrom(f); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}
