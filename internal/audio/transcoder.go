package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

var (
	// ErrTimeout reports that the conversion exceeded the wall-clock bound.
	ErrTimeout = errors.New("transcode timed out")

	// ErrToolMissing reports that the ffmpeg binary is absent from the
	// execution environment.
	ErrToolMissing = errors.New("ffmpeg not found")
)

// ProcessError reports a non-zero ffmpeg exit, carrying a bounded excerpt
// of its stderr for diagnostics.
type ProcessError struct {
	Stderr string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("ffmpeg failed: %s", e.Stderr)
}

const (
	// transcodeTimeout bounds one conversion.
	transcodeTimeout = 5 * time.Minute

	// stderrExcerptLen bounds the stderr excerpt carried in ProcessError.
	stderrExcerptLen = 200
)

// Transcoder converts downloaded source audio into MP3 by invoking ffmpeg.
//
// The target format is fixed: 2 channels, 44.1kHz sample rate, libmp3lame
// at the requested constant bitrate, overwriting the destination. Only the
// bitrate varies per call.
//
// Example:
//
//	tc := audio.NewTranscoder()
//	if err := tc.Transcode(ctx, "/tmp/src.m4a", "/tmp/out.mp3", 320); err != nil {
//	    switch {
//	    case errors.Is(err, audio.ErrTimeout):
//	    case errors.Is(err, audio.ErrToolMissing):
//	    default: // *audio.ProcessError or I/O failure
//	    }
//	}
type Transcoder struct {
	binary string
}

// NewTranscoder creates a Transcoder using the ffmpeg binary from PATH.
func NewTranscoder() *Transcoder {
	return &Transcoder{binary: "ffmpeg"}
}

// CheckInstalled reports whether the ffmpeg binary is available. Intended
// as a startup probe; Transcode performs its own classification.
func (t *Transcoder) CheckInstalled() error {
	if _, err := exec.LookPath(t.binary); err != nil {
		return ErrToolMissing
	}
	return nil
}

// Transcode converts sourcePath into an MP3 at destPath.
//
// The call is bounded by a 5 minute wall clock. Outcomes are exactly one
// of: nil, ErrTimeout, ErrToolMissing, or *ProcessError for a non-zero
// exit. No failure is ever re-raised as a panic.
func (t *Transcoder) Transcode(ctx context.Context, sourcePath, destPath string, bitrateKbps int) error {
	ctx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binary, transcodeArgs(sourcePath, destPath, bitrateKbps)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return ErrTimeout
	}
	if errors.Is(err, exec.ErrNotFound) {
		return ErrToolMissing
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ProcessError{Stderr: excerpt(stderr.String())}
	}
	return fmt.Errorf("run ffmpeg: %w", err)
}

// transcodeArgs builds the fixed ffmpeg argument list.
func transcodeArgs(sourcePath, destPath string, bitrateKbps int) []string {
	return []string{
		"-i", sourcePath,
		"-b:a", strconv.Itoa(bitrateKbps) + "k",
		"-ac", "2",
		"-ar", "44100",
		"-codec:a", "libmp3lame",
		"-y",
		destPath,
	}
}

func excerpt(s string) string {
	if len(s) > stderrExcerptLen {
		return s[:stderrExcerptLen]
	}
	return s
}
