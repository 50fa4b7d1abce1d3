package pipeline

import (
	"errors"

	"saavnbot/internal/audio"
	saavnhttp "saavnbot/internal/http"
	"saavnbot/internal/saavn"
)

// maxUserMessageLen bounds what UserMessage returns so chat surfaces never
// receive a raw stack of wrapped errors.
const maxUserMessageLen = 120

// UserMessage maps a pipeline failure to a short, chat-safe explanation.
// Unknown failures collapse to a generic message rather than leaking
// internals.
func UserMessage(err error) string {
	var procErr *audio.ProcessError

	var msg string
	switch {
	case err == nil:
		return ""
	case errors.Is(err, saavn.ErrNotFound):
		msg = "Song not found. It may have been removed from the catalog."
	case errors.Is(err, saavn.ErrUnavailable):
		msg = "No downloadable audio is available for this song."
	case errors.Is(err, audio.ErrTimeout):
		msg = "Conversion took too long and was cancelled. Please try again."
	case errors.Is(err, audio.ErrToolMissing):
		msg = "Audio conversion is unavailable right now. Please try later."
	case errors.As(err, &procErr):
		msg = "Audio conversion failed for this song."
	case errors.Is(err, audio.ErrVerification):
		msg = "The produced file failed a final check. Please try again."
	case errors.Is(err, ErrTooSmall), errors.Is(err, ErrTooLarge):
		msg = "The produced file looks wrong and was discarded. Please try again."
	case errors.Is(err, saavnhttp.ErrTransport):
		msg = "The music service is unreachable. Please try again in a moment."
	default:
		msg = "Something went wrong. Please try again."
	}

	if len(msg) > maxUserMessageLen {
		msg = msg[:maxUserMessageLen]
	}
	return msg
}
