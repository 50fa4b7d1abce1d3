// Package audio provides the media conversion and ID3 tagging stages of
// the download pipeline.
//
// # Transcoding
//
// Transcoder shells out to ffmpeg with a fixed target format (stereo,
// 44.1kHz, libmp3lame) at the requested constant bitrate:
//
//	tc := audio.NewTranscoder()
//	err := tc.Transcode(ctx, srcPath, destPath, 320)
//
// Failures are classified into exactly three kinds — ErrTimeout,
// ErrToolMissing, and *ProcessError (non-zero exit with a stderr
// excerpt) — and never escape as panics.
//
// # Tagging
//
// Tagger performs a full-overwrite ID3v2.3 write followed by an
// independent read-back verification:
//
//	tagger := audio.NewTagger()
//	err := tagger.Embed(destPath, tags, artworkBytes)
//
// Existing frames are always cleared first; embedding twice leaves only
// the second TagSet's values.
package audio
