package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"saavnbot/internal/audio"
	"saavnbot/internal/model"
	"saavnbot/internal/saavn"
)

type fakeCatalog struct {
	detail      *model.SongDetail
	getErr      error
	downloadErr error
}

func (f *fakeCatalog) GetSong(_ context.Context, _ string) (*model.SongDetail, error) {
	return f.detail, f.getErr
}

func (f *fakeCatalog) DownloadFile(_ context.Context, _, destPath string, _ func(written, total int64)) (int64, error) {
	if f.downloadErr != nil {
		return 0, f.downloadErr
	}
	data := []byte("source-audio")
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

type fakeTranscoder struct {
	outSize int
	err     error
}

func (f *fakeTranscoder) Transcode(_ context.Context, _, destPath string, _ int) error {
	if f.err != nil {
		return f.err
	}
	size := f.outSize
	if size == 0 {
		size = 4096
	}
	return os.WriteFile(destPath, make([]byte, size), 0o644)
}

type fakeTagger struct {
	gotTags    model.TagSet
	gotArtwork []byte
	called     bool
	err        error
}

func (f *fakeTagger) Embed(_ string, tags model.TagSet, artwork []byte) error {
	f.called = true
	f.gotTags = tags
	f.gotArtwork = artwork
	return f.err
}

type fakeArtwork struct {
	data []byte
	err  error
}

func (f *fakeArtwork) Process(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

func testDetail() *model.SongDetail {
	return &model.SongDetail{
		ID:       "song1",
		Title:    "Kesariya",
		Artists:  []string{"Arijit Singh"},
		Album:    "Brahmastra",
		Duration: 268,
		Year:     "2022",
		Language: "hindi",
		Images:   []model.ImageLink{{Quality: "500x500", URL: "https://img/500.jpg"}},
		Downloads: []model.DownloadLink{
			{Quality: "320kbps", URL: "https://dl/320.mp4"},
			{Quality: "96kbps", URL: "https://dl/96.mp4"},
		},
	}
}

func newTestPipeline(t *testing.T, cat *fakeCatalog, tc *fakeTranscoder, tg *fakeTagger, art *fakeArtwork) *Pipeline {
	t.Helper()
	return New(cat, tc, tg, art, t.TempDir(), zap.NewNop().Sugar())
}

func TestRun_Success(t *testing.T) {
	tagger := &fakeTagger{}
	p := newTestPipeline(t,
		&fakeCatalog{detail: testDetail()},
		&fakeTranscoder{},
		tagger,
		&fakeArtwork{data: []byte("jpeg")},
	)

	var stages []Stage
	res, err := p.Run(context.Background(), "song1", saavn.Bitrate320, func(s Stage) {
		stages = append(stages, s)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Bitrate != saavn.Bitrate320 {
		t.Errorf("Bitrate = %v", res.Bitrate)
	}
	if res.Duration != 268 {
		t.Errorf("Duration = %d", res.Duration)
	}
	if res.Size != 4096 {
		t.Errorf("Size = %d", res.Size)
	}
	if res.FileName != "Kesariya - Arijit Singh.mp3" {
		t.Errorf("FileName = %q", res.FileName)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	if !tagger.called || string(tagger.gotArtwork) != "jpeg" {
		t.Errorf("tagger called=%t artwork=%q", tagger.called, tagger.gotArtwork)
	}
	if tagger.gotTags.Genre != "Hindi" {
		t.Errorf("Genre = %q", tagger.gotTags.Genre)
	}

	want := []Stage{
		StageResolvingQuality, StageFetchingSource, StageTranscoding,
		StageBuildingTagSet, StageFetchingArtwork, StageEmbeddingTags,
		StageValidatingOutput,
	}
	if len(stages) != len(want) {
		t.Fatalf("got %d stages, want %d", len(stages), len(want))
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage[%d] = %v, want %v", i, stages[i], want[i])
		}
	}
}

func TestRun_SanitizesFileName(t *testing.T) {
	detail := testDetail()
	detail.Title = `Song: Title? <Live>`

	p := newTestPipeline(t, &fakeCatalog{detail: detail}, &fakeTranscoder{}, &fakeTagger{}, &fakeArtwork{})

	res, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.ContainsAny(strings.TrimSuffix(res.FileName, ".mp3"), `<>:"/\|?*`) {
		t.Errorf("FileName %q contains reserved characters", res.FileName)
	}
}

func TestRun_ArtworkFailureDegrades(t *testing.T) {
	tagger := &fakeTagger{}
	p := newTestPipeline(t,
		&fakeCatalog{detail: testDetail()},
		&fakeTranscoder{},
		tagger,
		&fakeArtwork{err: errors.New("image host down")},
	)

	if _, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil); err != nil {
		t.Fatalf("artwork failure must not fail the run: %v", err)
	}
	if !tagger.called {
		t.Error("tagger was not called")
	}
	if tagger.gotArtwork != nil {
		t.Errorf("artwork = %q, want nil", tagger.gotArtwork)
	}
}

func TestRun_TranscodeFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	p := New(
		&fakeCatalog{detail: testDetail()},
		&fakeTranscoder{err: &audio.ProcessError{Stderr: "boom"}},
		&fakeTagger{}, &fakeArtwork{}, dir, zap.NewNop().Sugar(),
	)

	_, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil)
	var procErr *audio.ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %v, want ProcessError", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("%d working files left behind after failure", len(entries))
	}
}

func TestRun_TooSmallOutput(t *testing.T) {
	dir := t.TempDir()
	p := New(
		&fakeCatalog{detail: testDetail()},
		&fakeTranscoder{outSize: 100},
		&fakeTagger{}, &fakeArtwork{}, dir, zap.NewNop().Sugar(),
	)

	_, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil)
	if !errors.Is(err, ErrTooSmall) {
		t.Fatalf("error = %v, want ErrTooSmall", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("%d working files left behind after validation failure", len(entries))
	}
}

func TestRun_NoDownloadsUnavailable(t *testing.T) {
	detail := testDetail()
	detail.Downloads = nil

	p := newTestPipeline(t, &fakeCatalog{detail: detail}, &fakeTranscoder{}, &fakeTagger{}, &fakeArtwork{})

	_, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil)
	if !errors.Is(err, saavn.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRun_SourceFetchFailure(t *testing.T) {
	p := newTestPipeline(t,
		&fakeCatalog{detail: testDetail(), downloadErr: errors.New("cdn refused")},
		&fakeTranscoder{}, &fakeTagger{}, &fakeArtwork{},
	)

	if _, err := p.Run(context.Background(), "song1", saavn.Bitrate320, nil); err == nil {
		t.Error("expected error when source fetch fails")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", fmt.Errorf("look up: %w", saavn.ErrNotFound), "not found"},
		{"unavailable", saavn.ErrUnavailable, "No downloadable audio"},
		{"timeout", audio.ErrTimeout, "took too long"},
		{"tool missing", audio.ErrToolMissing, "unavailable right now"},
		{"process error", fmt.Errorf("transcode: %w", &audio.ProcessError{Stderr: "x"}), "conversion failed"},
		{"too small", fmt.Errorf("%w: 12 bytes", ErrTooSmall), "looks wrong"},
		{"unknown", errors.New("mystery"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("UserMessage(nil) = %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("UserMessage = %q, want substring %q", got, tt.want)
			}
			if len(got) > maxUserMessageLen {
				t.Errorf("message length %d exceeds bound", len(got))
			}
		})
	}
}
