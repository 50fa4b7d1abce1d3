// Package pipeline orchestrates one track download end to end.
//
// A Run moves through fixed stages: resolve the requested bitrate against
// the song's available descriptors, fetch the source audio, transcode to
// MP3, build the tag set, fetch artwork, embed tags, and validate the
// output size. Artwork failures degrade (the MP3 ships without a cover);
// every other stage failure aborts the run. Working files are cleaned up
// on every exit path.
//
// UserMessage translates any Run error into a short explanation suitable
// for a chat reply.
package pipeline
