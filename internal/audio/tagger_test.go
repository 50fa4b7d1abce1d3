package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"saavnbot/internal/model"
)

// newTestMP3 writes a small untagged file standing in for a transcoded MP3.
func newTestMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFrames(t *testing.T, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen tag: %v", err)
	}
	t.Cleanup(func() { tag.Close() })
	return tag
}

func TestEmbed(t *testing.T) {
	path := newTestMP3(t)

	tags := model.TagSet{
		Title:       "Kesariya",
		Artist:      "Arijit Singh",
		AlbumArtist: "Arijit Singh",
		Album:       "Brahmastra",
		Year:        "2022",
		Genre:       "Hindi",
		Comment:     "ID: song1 | © Sony Music",
		Composer:    "Pritam",
	}

	if err := NewTagger().Embed(path, tags, []byte("jpeg-bytes")); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got := readFrames(t, path)
	if got.Title() != "Kesariya" {
		t.Errorf("Title = %q", got.Title())
	}
	if got.Artist() != "Arijit Singh" {
		t.Errorf("Artist = %q", got.Artist())
	}
	if got.Album() != "Brahmastra" {
		t.Errorf("Album = %q", got.Album())
	}
	if got.Genre() != "Hindi" {
		t.Errorf("Genre = %q", got.Genre())
	}
	if got.Version() != 3 {
		t.Errorf("Version = %d, want 3", got.Version())
	}
	if n := len(got.GetFrames(got.CommonID("Comments"))); n != 1 {
		t.Errorf("got %d comment frames, want 1", n)
	}
	if n := len(got.GetFrames(got.CommonID("Attached picture"))); n != 1 {
		t.Errorf("got %d picture frames, want 1", n)
	}
	if n := len(got.GetFrames("TCOM")); n != 1 {
		t.Errorf("got %d composer frames, want 1", n)
	}
}

func TestEmbed_OverwritesExistingTags(t *testing.T) {
	path := newTestMP3(t)
	tagger := NewTagger()

	first := model.TagSet{
		Title:    "Old Title",
		Artist:   "Old Artist",
		Composer: "Old Composer",
		Comment:  "old",
	}
	if err := tagger.Embed(path, first, []byte("old-cover")); err != nil {
		t.Fatalf("first Embed: %v", err)
	}

	// Second pass has no composer and no artwork. Neither may survive.
	second := model.TagSet{
		Title:   "New Title",
		Artist:  "New Artist",
		Comment: "new",
	}
	if err := tagger.Embed(path, second, nil); err != nil {
		t.Fatalf("second Embed: %v", err)
	}

	got := readFrames(t, path)
	if got.Title() != "New Title" || got.Artist() != "New Artist" {
		t.Errorf("tags = %q/%q, want second pass values", got.Title(), got.Artist())
	}
	if n := len(got.GetFrames("TCOM")); n != 0 {
		t.Errorf("composer frame survived overwrite (%d frames)", n)
	}
	if n := len(got.GetFrames(got.CommonID("Attached picture"))); n != 0 {
		t.Errorf("picture frame survived overwrite (%d frames)", n)
	}
}

func TestEmbed_DefaultCommentWhenEmpty(t *testing.T) {
	path := newTestMP3(t)

	if err := NewTagger().Embed(path, model.TagSet{Title: "T"}, nil); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	got := readFrames(t, path)
	frames := got.GetFrames(got.CommonID("Comments"))
	if len(frames) != 1 {
		t.Fatalf("got %d comment frames, want 1", len(frames))
	}
	cf, ok := frames[0].(id3v2.CommentFrame)
	if !ok {
		t.Fatalf("frame type %T", frames[0])
	}
	if cf.Text != model.DefaultComment {
		t.Errorf("comment = %q, want default", cf.Text)
	}
}

func TestEmbed_FileMissing(t *testing.T) {
	err := NewTagger().Embed(filepath.Join(t.TempDir(), "nope.mp3"), model.TagSet{}, nil)
	if !errors.Is(err, ErrFileMissing) {
		t.Errorf("error = %v, want ErrFileMissing", err)
	}
}
