package saavn

import (
	"errors"
	"strings"

	"saavnbot/internal/model"
)

// ErrUnavailable reports that a song has no usable download URL at all,
// even after fallback.
var ErrUnavailable = errors.New("no usable download URL")

// Bitrate is a canonical download quality label. The numeric value is the
// nominal bitrate in kbps. BitrateFallback marks catalog URLs whose quality
// string matched no numeric pattern (preview/default streams).
type Bitrate int

const (
	BitrateFallback Bitrate = 0
	Bitrate12       Bitrate = 12
	Bitrate48       Bitrate = 48
	Bitrate96       Bitrate = 96
	Bitrate128      Bitrate = 128
	Bitrate160      Bitrate = 160
	Bitrate320      Bitrate = 320
)

// String returns the user-facing label, e.g. "320kbps".
func (b Bitrate) String() string {
	switch b {
	case Bitrate320:
		return "320kbps"
	case Bitrate160:
		return "160kbps"
	case Bitrate128:
		return "128kbps"
	case Bitrate96:
		return "96kbps"
	case Bitrate48:
		return "48kbps"
	case Bitrate12:
		return "12kbps"
	default:
		return "default"
	}
}

// Kbps returns the numeric bitrate for the transcoder. The fallback label
// has no nominal bitrate and transcodes at 128.
func (b Bitrate) Kbps() int {
	if b == BitrateFallback {
		return 128
	}
	return int(b)
}

// ParseBitrate maps a user-facing label back to a Bitrate.
func ParseBitrate(label string) (Bitrate, bool) {
	switch label {
	case "320kbps":
		return Bitrate320, true
	case "160kbps":
		return Bitrate160, true
	case "128kbps":
		return Bitrate128, true
	case "96kbps":
		return Bitrate96, true
	case "48kbps":
		return Bitrate48, true
	case "12kbps":
		return Bitrate12, true
	default:
		return BitrateFallback, false
	}
}

// classifyTable maps raw catalog quality strings to canonical labels by
// substring match, evaluated in order. "128" must precede "12" so that
// "128kbps" is not swallowed by the 12kbps pattern.
var classifyTable = []struct {
	substr  string
	bitrate Bitrate
}{
	{"320", Bitrate320},
	{"160", Bitrate160},
	{"128", Bitrate128},
	{"96", Bitrate96},
	{"48", Bitrate48},
	{"12", Bitrate12},
}

// descending lists canonical labels from best to worst, with the fallback
// label considered last during resolution.
var descending = []Bitrate{Bitrate320, Bitrate160, Bitrate128, Bitrate96, Bitrate48, Bitrate12, BitrateFallback}

// QualityMap maps canonical bitrate labels to download URLs for one song.
//
// The map is built once per SongDetail and contains only labels that
// matched at least one download descriptor; absent labels are never
// synthesized. Classification is a pure function: the same descriptor list
// always yields the same map.
type QualityMap struct {
	urls map[Bitrate]string
}

// BuildQualityMap classifies a song's raw download descriptors into a
// QualityMap. Descriptors whose quality string matches no numeric pattern
// are kept under the fallback label. When several descriptors classify to
// the same label, the first wins.
func BuildQualityMap(links []model.DownloadLink) QualityMap {
	urls := make(map[Bitrate]string)
	for _, link := range links {
		if link.URL == "" {
			continue
		}
		label := classify(link.Quality)
		if _, exists := urls[label]; !exists {
			urls[label] = link.URL
		}
	}
	return QualityMap{urls: urls}
}

func classify(quality string) Bitrate {
	for _, entry := range classifyTable {
		if strings.Contains(quality, entry.substr) {
			return entry.bitrate
		}
	}
	return BitrateFallback
}

// IsEmpty reports whether no descriptor classified at all.
func (m QualityMap) IsEmpty() bool {
	return len(m.urls) == 0
}

// Has reports whether the given label matched a descriptor.
func (m QualityMap) Has(b Bitrate) bool {
	_, ok := m.urls[b]
	return ok
}

// Available returns the present labels ordered from highest to lowest
// bitrate, fallback last.
func (m QualityMap) Available() []Bitrate {
	var out []Bitrate
	for _, b := range descending {
		if m.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Resolve maps a requested label to the best available download URL.
//
// Resolution order:
//  1. The exact label, when present.
//  2. For a missing 128kbps request only: 96kbps, when present. This is
//     the single deliberate substitution; no other label pair gets one.
//  3. The highest-bitrate label present, fallback label last.
//
// An empty map yields ErrUnavailable. Resolve performs no I/O and is
// deterministic for a given map and request.
func (m QualityMap) Resolve(requested Bitrate) (string, Bitrate, error) {
	if url, ok := m.urls[requested]; ok {
		return url, requested, nil
	}

	if requested == Bitrate128 {
		if url, ok := m.urls[Bitrate96]; ok {
			return url, Bitrate96, nil
		}
	}

	for _, b := range descending {
		if url, ok := m.urls[b]; ok {
			return url, b, nil
		}
	}

	return "", BitrateFallback, ErrUnavailable
}
