package bot

import (
	"fmt"
	"strconv"
	"strings"

	"saavnbot/internal/saavn"
)

// Callback data layout. Song IDs are opaque catalog tokens; the bitrate
// suffix is split off from the right so underscores inside an ID survive.
const (
	cbSelectPrefix   = "select_"
	cbDownloadPrefix = "download_"
	cbCancel         = "cancel"
	cbSearchAgain    = "search_again"
)

type callbackKind int

const (
	callbackSelect callbackKind = iota
	callbackDownload
	callbackCancel
	callbackSearchAgain
)

type callbackAction struct {
	kind    callbackKind
	index   int
	songID  string
	bitrate saavn.Bitrate
}

// parseCallback decodes button callback data into an action.
func parseCallback(data string) (callbackAction, error) {
	switch {
	case data == cbCancel:
		return callbackAction{kind: callbackCancel}, nil

	case data == cbSearchAgain:
		return callbackAction{kind: callbackSearchAgain}, nil

	case strings.HasPrefix(data, cbSelectPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(data, cbSelectPrefix))
		if err != nil || index < 0 {
			return callbackAction{}, fmt.Errorf("bad selection index in %q", data)
		}
		return callbackAction{kind: callbackSelect, index: index}, nil

	case strings.HasPrefix(data, cbDownloadPrefix):
		rest := strings.TrimPrefix(data, cbDownloadPrefix)
		cut := strings.LastIndex(rest, "_")
		if cut <= 0 || cut == len(rest)-1 {
			return callbackAction{}, fmt.Errorf("bad download data %q", data)
		}
		kbps, err := strconv.Atoi(rest[cut+1:])
		if err != nil {
			return callbackAction{}, fmt.Errorf("bad bitrate in %q", data)
		}
		return callbackAction{
			kind:    callbackDownload,
			songID:  rest[:cut],
			bitrate: saavn.Bitrate(kbps),
		}, nil
	}

	return callbackAction{}, fmt.Errorf("unknown callback data %q", data)
}

func selectData(index int) string {
	return cbSelectPrefix + strconv.Itoa(index)
}

func downloadData(songID string, b saavn.Bitrate) string {
	return cbDownloadPrefix + songID + "_" + strconv.Itoa(int(b))
}
