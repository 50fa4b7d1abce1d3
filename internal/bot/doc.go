// Package bot is the Telegram front end of the downloader.
//
// It speaks to the Bot HTTP API directly through the API type and drives
// the conversation flow: a text search produces a numbered result list
// with inline buttons, picking a result shows the available bitrates, and
// picking a bitrate runs the download pipeline and uploads the MP3.
//
// Search results are held in a bounded, TTL-limited per-chat session
// store; downloads are serialized per chat but run in parallel across
// chats.
package bot
